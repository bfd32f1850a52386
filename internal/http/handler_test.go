package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkpress/internal/auth"
	"inkpress/internal/domain"
	"inkpress/internal/repository/sqlite"
	"inkpress/internal/service"
)

type testServer struct {
	router *gin.Engine
	auth   service.AuthService
	posts  service.PostService
}

func newTestServer(t *testing.T, overrides ...func(*Dependencies)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "blog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = sqlite.Migrate(context.Background(), db)
	require.NoError(t, err)

	logger, _ := test.NewNullLogger()
	postRepo := sqlite.NewPostRepository(db)
	deps := Dependencies{
		Auth:     service.NewAuthService(sqlite.NewUserRepository(db), sqlite.NewSessionRepository(db), nil),
		Posts:    service.NewPostService(postRepo, nil),
		Tags:     service.NewTagService(sqlite.NewTagRepository(db), postRepo),
		Comments: service.NewCommentService(sqlite.NewCommentRepository(db), postRepo),
		Search:   service.NewSearchService(sqlite.NewSearchRepository(db), service.SearchOptions{FullText: true, Logger: logger}),
		Logger:   logger,
	}
	for _, override := range overrides {
		override(&deps)
	}

	router := gin.New()
	NewHandler(deps).RegisterRoutes(router)
	return &testServer{router: router, auth: deps.Auth, posts: deps.Posts}
}

func (s *testServer) do(t *testing.T, method, path string, body any, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("Cookie", "theme=dark; session="+sessionID)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// login creates a user with role and returns a session id for it.
func (s *testServer) login(t *testing.T, username string, role domain.Role) string {
	t.Helper()
	ctx := context.Background()
	id, err := s.auth.CreateUser(ctx, username, username+"@example.com", "pw-"+username, role)
	require.NoError(t, err)
	sessionID, err := s.auth.CreateSession(ctx, id)
	require.NoError(t, err)
	return sessionID
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthAndCORS(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = srv.do(t, http.MethodOptions, "/api/posts", nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	srv := newTestServer(t)
	_, err := srv.auth.CreateUser(context.Background(), "alice", "alice@example.com", "s3cret", "")
	require.NoError(t, err)

	w := srv.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "alice", "password": "s3cret"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookie := w.Header().Get("Set-Cookie")
	sessionID := auth.SessionIDFromHeader(cookie)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, auth.SessionCookie(sessionID), cookie)

	w = srv.do(t, http.MethodGet, "/api/auth/session", nil, sessionID)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "alice", body["user"].(map[string]any)["username"])
}

func TestLoginFailuresLookIdentical(t *testing.T) {
	srv := newTestServer(t)
	_, err := srv.auth.CreateUser(context.Background(), "alice", "alice@example.com", "s3cret", "")
	require.NoError(t, err)

	wrong := srv.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "alice", "password": "nope"}, "")
	unknown := srv.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "mallory", "password": "s3cret"}, "")

	for _, w := range []*httptest.ResponseRecorder{wrong, unknown} {
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"invalid credentials"}`, w.Body.String())
		assert.Empty(t, w.Header().Get("Set-Cookie"))
	}

	w := srv.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "alice"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	srv := newTestServer(t)
	sessionID := srv.login(t, "alice", domain.RoleAdmin)

	w := srv.do(t, http.MethodPost, "/api/auth/logout", nil, sessionID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, auth.ClearSessionCookie(), w.Header().Get("Set-Cookie"))

	w = srv.do(t, http.MethodGet, "/api/auth/session", nil, sessionID)
	assert.Equal(t, false, decode(t, w)["authenticated"])

	w = srv.do(t, http.MethodPost, "/api/auth/logout", nil, sessionID)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterFirstUserOnly(t *testing.T) {
	srv := newTestServer(t)
	req := gin.H{"username": "alice", "email": "alice@example.com", "password": "pw"}

	w := srv.do(t, http.MethodPost, "/api/auth/register", req, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Set-Cookie"), "session="))
	assert.Equal(t, "admin", decode(t, w)["user"].(map[string]any)["role"])

	req["username"], req["email"] = "bob", "bob@example.com"
	w = srv.do(t, http.MethodPost, "/api/auth/register", req, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWriteRoutesRequireWriterRole(t *testing.T) {
	srv := newTestServer(t)
	viewer := srv.login(t, "vera", domain.RoleViewer)
	editor := srv.login(t, "ed", domain.RoleEditor)
	post := gin.H{"title": "Hello", "content": "World"}

	w := srv.do(t, http.MethodPost, "/api/posts", post, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())

	w = srv.do(t, http.MethodPost, "/api/posts", post, "expired-or-bogus")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.do(t, http.MethodPost, "/api/posts", post, viewer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = srv.do(t, http.MethodPost, "/api/posts", post, editor)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "hello", body["slug"])
	assert.Equal(t, "ed", body["author"])
	assert.Equal(t, "draft", body["status"])

	w = srv.do(t, http.MethodPost, "/api/posts", post, editor)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDraftsHiddenFromAnonymousReaders(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	editor := srv.login(t, "ed", domain.RoleEditor)

	draft, err := srv.posts.Create(ctx, service.NewPost{Title: "Secret", Content: "x", Author: "ed"})
	require.NoError(t, err)
	_, err = srv.posts.Create(ctx, service.NewPost{Title: "Public", Content: "x", Author: "ed", Status: domain.PostStatusPublished})
	require.NoError(t, err)

	w := srv.do(t, http.MethodGet, "/api/posts/secret", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = srv.do(t, http.MethodGet, "/api/posts/secret", nil, editor)
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodGet, "/api/posts", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["posts"], 1)

	w = srv.do(t, http.MethodGet, "/api/posts?status=draft", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = srv.do(t, http.MethodGet, "/api/posts?status=all", nil, editor)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["posts"], 2)

	w = srv.do(t, http.MethodPut, "/api/posts/"+itoa(draft.ID), gin.H{"status": "published"}, editor)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = srv.do(t, http.MethodGet, "/api/posts/secret", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["views"])

	w = srv.do(t, http.MethodDelete, "/api/posts/"+itoa(draft.ID), nil, editor)
	assert.Equal(t, http.StatusOK, w.Code)
	w = srv.do(t, http.MethodDelete, "/api/posts/"+itoa(draft.ID), nil, editor)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTagRoutes(t *testing.T) {
	srv := newTestServer(t)
	editor := srv.login(t, "ed", domain.RoleEditor)
	post, err := srv.posts.Create(context.Background(), service.NewPost{Title: "Tagged", Content: "x", Author: "ed", Status: domain.PostStatusPublished})
	require.NoError(t, err)

	w := srv.do(t, http.MethodPost, "/api/tags", gin.H{"name": "Go Tips"}, editor)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tagID := int64(decode(t, w)["id"].(float64))

	w = srv.do(t, http.MethodGet, "/api/tags/go-tips", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodPost, "/api/posts/"+itoa(post.ID)+"/tags", gin.H{"tag_id": tagID}, editor)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = srv.do(t, http.MethodGet, "/api/posts/"+itoa(post.ID)+"/tags", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["tags"], 1)

	w = srv.do(t, http.MethodDelete, "/api/posts/"+itoa(post.ID)+"/tags/"+itoa(tagID), nil, editor)
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodDelete, "/api/tags/go-tips", nil, editor)
	assert.Equal(t, http.StatusOK, w.Code)
	w = srv.do(t, http.MethodGet, "/api/tags/go-tips", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentRoutes(t *testing.T) {
	srv := newTestServer(t)
	editor := srv.login(t, "ed", domain.RoleEditor)
	post, err := srv.posts.Create(context.Background(), service.NewPost{Title: "Discuss", Content: "x", Author: "ed", Status: domain.PostStatusPublished})
	require.NoError(t, err)
	base := "/api/posts/" + itoa(post.ID) + "/comments"

	w := srv.do(t, http.MethodPost, base, gin.H{"author_name": "Ann", "author_email": "ann@example.com", "content": "Nice"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "pending", created["status"])
	assert.NotContains(t, created, "author_email")
	commentID := int64(created["id"].(float64))

	w = srv.do(t, http.MethodGet, base, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["comments"])

	w = srv.do(t, http.MethodGet, base+"?status=pending", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = srv.do(t, http.MethodGet, base+"?status=pending", nil, editor)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["comments"], 1)

	w = srv.do(t, http.MethodPut, "/api/comments/"+itoa(commentID)+"/status", gin.H{"status": "approved"}, editor)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = srv.do(t, http.MethodGet, base, nil, "")
	assert.Len(t, decode(t, w)["comments"], 1)

	w = srv.do(t, http.MethodDelete, "/api/comments/"+itoa(commentID), nil, editor)
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodPost, "/api/posts/999/comments", gin.H{"author_name": "Ann", "author_email": "ann@example.com", "content": "Nice"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchRoute(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	_, err := srv.posts.Create(ctx, service.NewPost{Title: "Go concurrency", Content: "channels", Author: "ed", Status: domain.PostStatusPublished})
	require.NoError(t, err)

	w := srv.do(t, http.MethodGet, "/api/search?q=channels", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "indexed", body["strategy"])
	require.Len(t, body["posts"], 1)

	w = srv.do(t, http.MethodGet, "/api/search?q=", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["posts"])
}

type failingSearch struct{}

func (failingSearch) Search(context.Context, string) (*service.SearchResult, error) {
	return nil, service.ErrSearchUnavailable
}

func TestSearchRouteUnavailable(t *testing.T) {
	srv := newTestServer(t, func(d *Dependencies) { d.Search = failingSearch{} })

	w := srv.do(t, http.MethodGet, "/api/search?q=go", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"search unavailable","posts":[]}`, w.Body.String())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrSessionInvalid, http.StatusUnauthorized},
		{service.ErrConstraintViolation, http.StatusConflict},
		{service.ErrCommentNotFound, http.StatusNotFound},
		{service.ErrImageNotFound, http.StatusNotFound},
		{service.ErrInvalidImage, http.StatusBadRequest},
		{service.ErrInvalidRole, http.StatusBadRequest},
		{service.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		code, _ := statusFor(tt.err)
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

func TestRequestLoggerLogsServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()
	router := gin.New()
	router.Use(requestLogger(logger))
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, http.StatusBadGateway, entry.Data["status"])
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
