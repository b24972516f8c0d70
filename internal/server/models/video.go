package models

import "time"

// Default display dimensions applied when the uploader does not specify any.
const (
	DefaultVideoHeight = 1080
	DefaultVideoWidth  = 1920
)

// Quality bounds for the optional display transformation quality.
const (
	MinQuality = 1
	MaxQuality = 100
)

// Transformation describes how the stored video is rendered for playback.
// Quality is optional; nil means the player default.
type Transformation struct {
	Height  int  `json:"height"`
	Width   int  `json:"width"`
	Quality *int `json:"quality,omitempty"`
}

// Video is a persisted video record. OwnerID is immutable once set; the
// record only ever exists with both VideoURL and ThumbnailURL populated.
type Video struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	VideoURL       string         `json:"videoUrl"`
	ThumbnailURL   string         `json:"thumbnailUrl"`
	OwnerID        string         `json:"ownerId"`
	Controls       bool           `json:"controls"`
	Transformation Transformation `json:"transformation"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ClampQuality forces a submitted quality value into [MinQuality, MaxQuality].
func ClampQuality(q int) int {
	if q < MinQuality {
		return MinQuality
	}
	if q > MaxQuality {
		return MaxQuality
	}
	return q
}
