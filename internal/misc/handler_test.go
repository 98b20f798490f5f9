package misc_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tripeak/tripeak/internal/auth"
	"github.com/tripeak/tripeak/internal/misc"
	"github.com/tripeak/tripeak/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/go-redis/redismock/v8"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

var (
	testUsername     = "testuser"
	testPassword     = "testpass"
	testPasswordHash = "$2a$14$6Gmhg85si2etd3K9oB8nYu1cxfbrdmhkg6wI6OXsa88IF4L2r/L9i" // testpass
)

type allowAllRateLimiter struct{}

func (allowAllRateLimiter) Allow(_ context.Context, _ string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	return &redis_rate.Result{Allowed: 1}, nil
}

func handlerTestSetup(t *testing.T) (*mux.Router, redismock.ClientMock, *auth.Service) {
	t.Helper()

	rdb, redisMock := redismock.NewClientMock()
	t.Cleanup(func() { _ = rdb.Close() })

	authService := auth.NewAuthService(&auth.Admin{
		Username:     testUsername,
		PasswordHash: testPasswordHash,
	}, auth.DefaultTTL, rdb)

	handler := misc.NewHandler("test-version", authService)

	r := mux.NewRouter()
	handler.SetupRoutes(r, allowAllRateLimiter{}, metrics.NewTestManager(), 5)
	return r, redisMock, authService
}

func TestHandler_Root(t *testing.T) {
	r, _, _ := handlerTestSetup(t)

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "I'm OK, thanks ;)", rr.Body.String())
}

func TestHandler_Version(t *testing.T) {
	r, _, _ := handlerTestSetup(t)

	req := httptest.NewRequest("GET", "/version", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "test-version", rr.Body.String())
}

func TestHandler_Login(t *testing.T) {
	r, redisMock, authService := handlerTestSetup(t)

	testToken := "test_token"
	authService.RandStringFunc = func(s int) (string, error) {
		return testToken, nil
	}

	redisMock.Regexp().ExpectSet("tripeak-session||"+testToken, `\d+`, 0).SetVal("1")
	redisMock.ExpectSAdd("tripeak-sessions", testToken).SetVal(1)

	body := fmt.Sprintf(`{"username": %q, "password": %q}`, testUsername, testPassword)
	req := httptest.NewRequest("POST", "/a/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, fmt.Sprintf(`{"token": "%s"}`, testToken), rr.Body.String())
}

func TestHandler_Login_WrongCredentials(t *testing.T) {
	r, _, _ := handlerTestSetup(t)

	body := fmt.Sprintf(`{"username": %q, "password": "nope"}`, testUsername)
	req := httptest.NewRequest("POST", "/a/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Login_EmptyFields(t *testing.T) {
	r, _, _ := handlerTestSetup(t)

	for _, body := range []string{
		`{"username": "", "password": "pass"}`,
		`{"username": "user", "password": ""}`,
	} {
		req := httptest.NewRequest("POST", "/a/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "test-agent")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "body: %s", body)
	}
}

func TestHandler_Logout(t *testing.T) {
	r, redisMock, _ := handlerTestSetup(t)

	testToken := "test_token"
	sessionKey := "tripeak-session||" + testToken
	createdAt := time.Now().Add(-time.Minute)

	redisMock.ExpectGet(sessionKey).SetVal(fmt.Sprintf("%d", createdAt.Unix()))
	redisMock.ExpectSet(sessionKey, 0, 0).SetVal("0")
	redisMock.ExpectSRem("tripeak-sessions", testToken).SetVal(1)

	req := httptest.NewRequest("GET", "/a/logout", nil)
	req.Header.Set("X-TRIPEAK-TOKEN", testToken)
	req.Header.Set("User-Agent", "test-agent")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "logged-out", rr.Body.String())
}

func TestHandler_Logout_NoToken(t *testing.T) {
	r, _, _ := handlerTestSetup(t)

	req := httptest.NewRequest("GET", "/a/logout", nil)
	req.Header.Set("User-Agent", "test-agent")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
