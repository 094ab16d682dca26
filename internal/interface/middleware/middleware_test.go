package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/aros-club/aros-api/internal/application"
	"github.com/aros-club/aros-api/internal/domain/entity"
	"github.com/aros-club/aros-api/internal/infrastructure/memory"
	"github.com/aros-club/aros-api/pkg/helpers"
)

type fakeResolver struct {
	users map[string]*entity.User
	err   error
	calls int
}

func (f *fakeResolver) ResolveByToken(_ context.Context, token string) (*entity.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, application.ErrUserNotFound
}

func newResolver() *fakeResolver {
	return &fakeResolver{users: map[string]*entity.User{
		"admin-token":  {ID: "1", Name: "Admin", IsAdmin: true},
		"member-token": {ID: "2", Name: "Member"},
	}}
}

func gatedEngine(gate gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/gated", gate, func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.String(http.StatusInternalServerError, "no user")
			return
		}
		c.String(http.StatusOK, u.ID)
	})
	return r
}

func call(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestUserGate(t *testing.T) {
	r := gatedEngine(UserGate(newResolver(), helpers.NewNopLogger()))

	w := call(r, "member-token")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2", w.Body.String())

	w = call(r, "admin-token")
	require.Equal(t, http.StatusOK, w.Code)

	for _, token := range []string{"", "garbage"} {
		w = call(r, token)
		require.Equal(t, http.StatusUnauthorized, w.Code, token)
		body := decode(t, w)
		require.Equal(t, false, body["loggedIn"])
		require.NotEmpty(t, body["message"])
	}
}

func TestAdminGate(t *testing.T) {
	r := gatedEngine(AdminGate(newResolver(), helpers.NewNopLogger()))

	w := call(r, "admin-token")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "1", w.Body.String())

	for _, token := range []string{"", "garbage", "member-token"} {
		w = call(r, token)
		require.Equal(t, http.StatusUnauthorized, w.Code, token)
		require.Equal(t, map[string]any{"message": "not Admin"}, decode(t, w))
	}
}

func TestGatesLookupFailureIs403(t *testing.T) {
	res := &fakeResolver{err: errors.New("store down")}
	for name, gate := range map[string]gin.HandlerFunc{
		"user":  UserGate(res, helpers.NewNopLogger()),
		"admin": AdminGate(res, nil),
	} {
		w := call(gatedEngine(gate), "admin-token")
		require.Equal(t, http.StatusForbidden, w.Code, name)
		require.Equal(t, "Access token missing or invalid", decode(t, w)["message"], name)
		require.NotContains(t, w.Body.String(), "store down", name)
	}
}

// utf8Users rejects non UTF-8 lookups the way a UTF8-encoded database does.
type utf8Users struct {
	*memory.UserRepository
}

func (u utf8Users) GetByAccessToken(ctx context.Context, token string) (*entity.User, error) {
	if !utf8.ValidString(token) {
		return nil, errors.New("ERROR: invalid byte sequence for encoding \"UTF8\": 0xff (SQLSTATE 22021)")
	}
	return u.UserRepository.GetByAccessToken(ctx, token)
}

func TestGatesRejectNonUTF8TokenAs401(t *testing.T) {
	svc := application.NewUserService(utf8Users{memory.NewUserRepository()}, nil, helpers.NewNopLogger(), "Aros", "")

	w := call(gatedEngine(UserGate(svc, nil)), "\xff")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, false, decode(t, w)["loggedIn"])

	w = call(gatedEngine(AdminGate(svc, nil)), "tok\xfe\xff")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, map[string]any{"message": "not Admin"}, decode(t, w))
}

func TestCurrentUserWithoutGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := CurrentUser(c)
	require.False(t, ok)
}

func TestRequestID(t *testing.T) {
	r := gatedEngine(UserGate(newResolver(), nil))
	w := call(r, "")
	require.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req.Header.Set("X-Request-ID", "5f0c7a3e-1b2d-4e5f-8a9b-0c1d2e3f4a5b")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "5f0c7a3e-1b2d-4e5f-8a9b-0c1d2e3f4a5b", w.Header().Get("X-Request-ID"))

	req.Header.Set("X-Request-ID", "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.NotEqual(t, "<script>", w.Header().Get("X-Request-ID"))
}

func TestRealIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, ClientIP(c)) })

	cases := map[string]http.Header{
		"203.0.113.7":  {"Cf-Connecting-Ip": {"203.0.113.7"}},
		"198.51.100.1": {"X-Forwarded-For": {"198.51.100.1, 10.0.0.1"}},
		"192.0.2.1":    {"X-Forwarded-For": {"not-an-ip"}},
	}
	for want, h := range cases {
		req := httptest.NewRequest(http.MethodGet, "/ip", nil)
		req.Header = h
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, want, w.Body.String())
	}
}

func TestAccessLogOmitsToken(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RealIP(), AccessLog(logger))
	r.GET("/gated", UserGate(newResolver(), logger), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	call(r, "member-token")
	call(r, "garbage")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))
	require.EqualValues(t, http.StatusNoContent, first["status"])
	require.Equal(t, "/gated", first["route"])
	require.Equal(t, "2", first["user_id"])
	require.EqualValues(t, http.StatusUnauthorized, second["status"])
	require.Equal(t, "warning", second["level"])
	require.NotContains(t, buf.String(), "member-token")
}
