package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	todobackend "github.com/vimalpatra/todo-backend"
	"github.com/vimalpatra/todo-backend/middleware"
	"github.com/vimalpatra/todo-backend/tasks"
)

func testEngineConfig() todobackend.Config {
	cfg := todobackend.DefaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	// the suite fires many auth requests from one address
	cfg.Abuse.Threshold = 1000
	return cfg
}

func newTestServer(t *testing.T, cfg todobackend.Config) (http.Handler, *todobackend.Engine) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	engine, err := todobackend.New().
		WithConfig(cfg).
		WithRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()})).
		Build()
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	repo := tasks.NewRepository(engine.Documents())
	return NewServer(engine, repo).Router(Options{}), engine
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func signup(t *testing.T, h http.Handler, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/users/signup", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Header().Get(middleware.HeaderAccessToken),
		rec.Header().Get(middleware.HeaderRefreshToken),
		body.ID
}

func TestSignupShortPasswordIsBadRequest(t *testing.T) {
	h, _ := newTestServer(t, testEngineConfig())

	rec := doJSON(t, h, http.MethodPost, "/users/signup", map[string]string{
		"email":    "a@x.com",
		"password": "short",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "at least 8")
}

func TestSignupReturnsTokensAndSanitizedUser(t *testing.T) {
	h, engine := newTestServer(t, testEngineConfig())

	rec := doJSON(t, h, http.MethodPost, "/users/signup", map[string]string{
		"email":    "a@x.com",
		"password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderAccessToken))
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRefreshToken))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "a@x.com", body["email"])
	assert.NotEmpty(t, body["_id"])
	assert.NotContains(t, body, "passwordHash")
	assert.NotContains(t, body, "sessions")

	// exactly one session stored
	user, err := engine.ResolveSession(
		httptest.NewRequest(http.MethodGet, "/", nil).Context(),
		body["_id"].(string),
		rec.Header().Get(middleware.HeaderRefreshToken),
	)
	require.NoError(t, err)
	assert.Len(t, user.Sessions, 1)
}

func TestSignupValidation(t *testing.T) {
	h, _ := newTestServer(t, testEngineConfig())

	rec := doJSON(t, h, http.MethodPost, "/users/signup", map[string]string{"email": "a@x.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	signup(t, h, "a@x.com", "secret123")
	rec = doJSON(t, h, http.MethodPost, "/users/signup", map[string]string{
		"email":    "a@x.com",
		"password": "secret123",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginAddsSecondSession(t *testing.T) {
	h, engine := newTestServer(t, testEngineConfig())

	_, _, userID := signup(t, h, "a@x.com", "secret123")

	rec := doJSON(t, h, http.MethodPost, "/users/login", map[string]string{
		"email":    "a@x.com",
		"password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	refresh := rec.Header().Get(middleware.HeaderRefreshToken)
	require.NotEmpty(t, refresh)

	user, err := engine.ResolveSession(
		httptest.NewRequest(http.MethodGet, "/", nil).Context(), userID, refresh)
	require.NoError(t, err)
	assert.Len(t, user.Sessions, 2)
}

func TestLoginWrongPassword(t *testing.T) {
	h, _ := newTestServer(t, testEngineConfig())

	signup(t, h, "a@x.com", "secret123")

	rec := doJSON(t, h, http.MethodPost, "/users/login", map[string]string{
		"email":    "a@x.com",
		"password": "wrongpass1",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshAccessToken(t *testing.T) {
	h, _ := newTestServer(t, testEngineConfig())

	_, refresh, userID := signup(t, h, "a@x.com", "secret123")

	rec := doJSON(t, h, http.MethodGet, "/users/me/access-token", nil, map[string]string{
		middleware.HeaderRefreshToken: refresh,
		middleware.HeaderUserID:       userID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	minted := rec.Header().Get(middleware.HeaderAccessToken)
	assert.NotEmpty(t, minted)

	// the minted token must pass the access gate
	rec = doJSON(t, h, http.MethodGet, "/lists", nil, map[string]string{
		middleware.HeaderAccessToken: minted,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshRejectsBogusSession(t *testing.T) {
	h, _ := newTestServer(t, testEngineConfig())

	_, _, userID := signup(t, h, "a@x.com", "secret123")

	rec := doJSON(t, h, http.MethodGet, "/users/me/access-token", nil, map[string]string{
		middleware.HeaderRefreshToken: "bogus-token",
		middleware.HeaderUserID:       userID,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListsAreOwnerScoped(t *testing.T) {
	h, _ := newTestServer(t, testEngineConfig())

	aliceToken, _, _ := signup(t, h, "alice@x.com", "secret123")
	bobToken, _, _ := signup(t, h, "bob@x.com", "secret123")

	rec := doJSON(t, h, http.MethodPost, "/lists", map[string]string{"title": "groceries"}, map[string]string{
		middleware.HeaderAccessToken: aliceToken,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created tasks.List
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, h, http.MethodGet, "/lists", nil, map[string]string{
		middleware.HeaderAccessToken: aliceToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var aliceLists []tasks.List
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &aliceLists))
	assert.Len(t, aliceLists, 1)

	rec = doJSON(t, h, http.MethodGet, "/lists", nil, map[string]string{
		middleware.HeaderAccessToken: bobToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var bobLists []tasks.List
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bobLists))
	assert.Empty(t, bobLists)

	// bob probing alice's list id gets a 404, same as a missing list
	rec = doJSON(t, h, http.MethodGet, "/lists/"+created.ID+"/tasks", nil, map[string]string{
		middleware.HeaderAccessToken: bobToken,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskLifecycle(t *testing.T) {
	h, _ := newTestServer(t, testEngineConfig())

	token, _, _ := signup(t, h, "a@x.com", "secret123")
	auth := map[string]string{middleware.HeaderAccessToken: token}

	rec := doJSON(t, h, http.MethodPost, "/lists", map[string]string{"title": "groceries"}, auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	var list tasks.List
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))

	rec = doJSON(t, h, http.MethodPost, "/lists/"+list.ID+"/tasks", map[string]string{"title": "buy milk"}, auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var task tasks.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, list.ID, task.ListID)
	assert.False(t, task.Completed)

	rec = doJSON(t, h, http.MethodPatch, "/lists/"+list.ID+"/tasks/"+task.ID,
		map[string]any{"completed": true}, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/lists/"+list.ID+"/tasks", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []tasks.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.True(t, items[0].Completed)
	assert.Equal(t, "buy milk", items[0].Title)

	rec = doJSON(t, h, http.MethodDelete, "/lists/"+list.ID+"/tasks/"+task.ID, nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/lists/"+list.ID+"/tasks", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	items = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Empty(t, items)
}

func TestExpiredTokenRejectedAtGate(t *testing.T) {
	cfg := testEngineConfig()
	cfg.JWT.AccessTTL = time.Nanosecond
	h, engine := newTestServer(t, cfg)

	token, err := engine.IssueAccessToken(context.Background(), "someone")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	rec := doJSON(t, h, http.MethodGet, "/lists", nil, map[string]string{
		middleware.HeaderAccessToken: token,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAbuseGateChallenges(t *testing.T) {
	cfg := testEngineConfig()
	cfg.Abuse.Threshold = 3
	h, _ := newTestServer(t, cfg)

	body := map[string]string{"email": "a@x.com", "password": "wrongpass1"}
	// sightings 1-3 from the same address get through the gate
	for i := 0; i < 3; i++ {
		rec := doJSON(t, h, http.MethodPost, "/users/login", body, nil)
		require.NotEqual(t, http.StatusTooManyRequests, rec.Code, "request %d", i+1)
	}

	rec := doJSON(t, h, http.MethodPost, "/users/login", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "verification required")
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t, testEngineConfig())

	rec := doJSON(t, h, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
