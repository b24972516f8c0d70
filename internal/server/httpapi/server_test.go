package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skorolevs/clipvault/internal/common"
	"github.com/skorolevs/clipvault/internal/logging"
	"github.com/skorolevs/clipvault/internal/server/auth"
	"github.com/skorolevs/clipvault/internal/server/models"
	"github.com/skorolevs/clipvault/internal/server/services"
)

const testSecret = "test-secret"

type stubUsers struct {
	registerOut *models.User
	registerErr error
	loginOut    string
	loginErr    error
}

func (s *stubUsers) Register(ctx context.Context, email, password string) (*models.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return s.registerOut, nil
}

func (s *stubUsers) Login(ctx context.Context, email, password string) (string, error) {
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return s.loginOut, nil
}

type stubVideos struct {
	uploadOut   *models.Video
	uploadErr   error
	gotIdentity *models.Identity
	gotReq      *services.UploadRequest

	getOut *models.Video
	getErr error

	listOut []*models.Video
	listErr error

	deleteErr      error
	deleteIdentity *models.Identity
	deleteID       string
}

func (s *stubVideos) Upload(ctx context.Context, identity *models.Identity, req *services.UploadRequest) (*models.Video, error) {
	s.gotIdentity = identity
	s.gotReq = req
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	return s.uploadOut, nil
}

func (s *stubVideos) Get(ctx context.Context, id string) (*models.Video, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.getOut, nil
}

func (s *stubVideos) List(ctx context.Context) ([]*models.Video, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listOut, nil
}

func (s *stubVideos) Delete(ctx context.Context, identity *models.Identity, id string) error {
	s.deleteIdentity = identity
	s.deleteID = id
	return s.deleteErr
}

func newTestEcho(t *testing.T, users UserProvider, videos VideoProvider) *echo.Echo {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	s := NewServer(":0", logger, users, videos, testSecret)
	e := echo.New()
	s.routes(e)
	return e
}

func bearerFor(t *testing.T, userID string) string {
	t.Helper()
	tok, err := auth.Issue(&models.Identity{UserID: userID}, []byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("auth.Issue error: %v", err)
	}
	return "Bearer " + tok
}

func multipartUpload(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for name, data := range files {
		fw, err := w.CreateFormFile(name, name+".bin")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, w.FormDataContentType()
}

func TestLogin_Success(t *testing.T) {
	e := newTestEcho(t, &stubUsers{loginOut: "tok-123"}, &stubVideos{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"a@b.c","password":"p"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.AccessToken != "tok-123" {
		t.Fatalf("access_token = %q", resp.AccessToken)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	for _, failure := range []error{common.ErrNoSuchUser, common.ErrInvalidCredentials} {
		e := newTestEcho(t, &stubUsers{loginErr: failure}, &stubVideos{})

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"a@b.c","password":"p"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d for %v", rec.Code, failure)
		}
		if !strings.Contains(rec.Body.String(), "authentication failed") {
			t.Fatalf("body %q leaks the failure reason for %v", rec.Body.String(), failure)
		}
		if strings.Contains(rec.Body.String(), "no such user") {
			t.Fatalf("body leaks user existence: %q", rec.Body.String())
		}
	}
}

func TestRegister_Duplicate(t *testing.T) {
	e := newTestEcho(t, &stubUsers{registerErr: common.ErrorAlreadyExists}, &stubVideos{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"a@b.c","password":"p"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUpload_RequiresBearerToken(t *testing.T) {
	videos := &stubVideos{}
	e := newTestEcho(t, &stubUsers{}, videos)

	body, contentType := multipartUpload(t,
		map[string]string{"title": "Demo", "description": "d"},
		map[string][]byte{"video": []byte("v"), "thumbnail": []byte("t")})

	req := httptest.NewRequest(http.MethodPost, "/api/videos", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if videos.gotReq != nil {
		t.Fatalf("upload ran without authentication")
	}
}

func TestUpload_ExpiredToken(t *testing.T) {
	e := newTestEcho(t, &stubUsers{}, &stubVideos{})

	tok, err := auth.Issue(&models.Identity{UserID: "u1"}, []byte(testSecret), -time.Second)
	if err != nil {
		t.Fatalf("auth.Issue error: %v", err)
	}

	body, contentType := multipartUpload(t, map[string]string{"title": "x"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/videos", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "token expired") {
		t.Fatalf("body = %q, want expiry reported", rec.Body.String())
	}
}

func TestUpload_Success_PassesResolvedIdentity(t *testing.T) {
	videos := &stubVideos{uploadOut: &models.Video{ID: "vid-1", OwnerID: "u1"}}
	e := newTestEcho(t, &stubUsers{}, videos)

	body, contentType := multipartUpload(t,
		map[string]string{"title": "Demo", "description": "Test video", "quality": "80"},
		map[string][]byte{"video": bytes.Repeat([]byte{1}, 16), "thumbnail": bytes.Repeat([]byte{2}, 8)})

	req := httptest.NewRequest(http.MethodPost, "/api/videos", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set(echo.HeaderAuthorization, bearerFor(t, "u1"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if videos.gotIdentity == nil || videos.gotIdentity.UserID != "u1" {
		t.Fatalf("identity not resolved from token: %+v", videos.gotIdentity)
	}
	if videos.gotReq.Title != "Demo" || len(videos.gotReq.Video) != 16 || len(videos.gotReq.Thumbnail) != 8 {
		t.Fatalf("form not parsed: %+v", videos.gotReq)
	}
	if videos.gotReq.Quality == nil || *videos.gotReq.Quality != 80 {
		t.Fatalf("quality not parsed: %v", videos.gotReq.Quality)
	}
}

func TestUpload_BlobFailureIsBadGateway(t *testing.T) {
	videos := &stubVideos{uploadErr: common.ErrVideoUploadFailed}
	e := newTestEcho(t, &stubUsers{}, videos)

	body, contentType := multipartUpload(t,
		map[string]string{"title": "Demo", "description": "d"},
		map[string][]byte{"video": []byte("v"), "thumbnail": []byte("t")})

	req := httptest.NewRequest(http.MethodPost, "/api/videos", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set(echo.HeaderAuthorization, bearerFor(t, "u1"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetVideo_NotFound(t *testing.T) {
	e := newTestEcho(t, &stubUsers{}, &stubVideos{getErr: common.ErrorNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/videos/missing", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetVideo_PublicWithoutToken(t *testing.T) {
	e := newTestEcho(t, &stubUsers{}, &stubVideos{getOut: &models.Video{ID: "vid-1", Title: "Demo"}})

	req := httptest.NewRequest(http.MethodGet, "/api/videos/vid-1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"videoUrl"`) {
		t.Fatalf("response not in the external record shape: %s", rec.Body.String())
	}
}

func TestListVideos_EmptyIsArray(t *testing.T) {
	e := newTestEcho(t, &stubUsers{}, &stubVideos{})

	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("empty list = %q, want []", rec.Body.String())
	}
}

func TestDeleteVideo_Forbidden(t *testing.T) {
	e := newTestEcho(t, &stubUsers{}, &stubVideos{deleteErr: common.ErrForbidden})

	req := httptest.NewRequest(http.MethodDelete, "/api/videos/vid-1", nil)
	req.Header.Set(echo.HeaderAuthorization, bearerFor(t, "intruder"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDeleteVideo_Success(t *testing.T) {
	videos := &stubVideos{}
	e := newTestEcho(t, &stubUsers{}, videos)

	req := httptest.NewRequest(http.MethodDelete, "/api/videos/vid-1", nil)
	req.Header.Set(echo.HeaderAuthorization, bearerFor(t, "u1"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if videos.deleteID != "vid-1" || videos.deleteIdentity == nil || videos.deleteIdentity.UserID != "u1" {
		t.Fatalf("delete not called with resolved identity and id: %+v %q", videos.deleteIdentity, videos.deleteID)
	}
}
