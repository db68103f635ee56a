package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecthub/tracker-api/internal/core/service"
	"github.com/projecthub/tracker-api/internal/infrastructure/db/memory"
	redisdb "github.com/projecthub/tracker-api/internal/infrastructure/db/redis"
)

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T, limiter *redisdb.RateLimiter) *testServer {
	t.Helper()
	store := memory.NewStore()
	users := store.Users()
	tokens := service.NewTokenService("router-secret", time.Hour)

	e := NewRouter(Deps{
		Auth:     service.NewAuthService(users, tokens, zerolog.Nop()),
		Clients:  service.NewClientService(store.Clients(), store.Projects(), users, zerolog.Nop()),
		Projects: service.NewProjectService(store.Projects(), store.Clients(), users, zerolog.Nop()),
		Limiter:  limiter,
		Log:      zerolog.Nop(),
		Registry: prometheus.NewRegistry(),
	})
	return &testServer{t: t, e: e}
}

func (s *testServer) do(method, path, token string, body any) (int, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

// signup returns the new account's token and id.
func (s *testServer) signup(name, role string) (string, string) {
	s.t.Helper()
	in := map[string]any{
		"username": name,
		"email":    name + "@example.com",
		"password": "Passw0rd",
	}
	if role != "" {
		in["role"] = role
	}
	code, body := s.do(http.MethodPost, "/api/auth/signup", "", in)
	require.Equal(s.t, http.StatusCreated, code, body)
	user := body["user"].(map[string]any)
	return body["token"].(string), user["id"].(string)
}

func (s *testServer) createClient(token, name string) string {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/api/clients", token, map[string]any{
		"name":  name,
		"email": name + "@clients.example.com",
	})
	require.Equal(s.t, http.StatusCreated, code, body)
	return body["client"].(map[string]any)["id"].(string)
}

func TestRouter_SignupLoginAndEmptyList(t *testing.T) {
	s := newTestServer(t, nil)
	s.signup("bob", "")

	code, body := s.do(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "BOB@example.com", "password": "Passw0rd",
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Login successful", body["message"])
	token := body["token"].(string)

	code, body = s.do(http.MethodGet, "/api/clients", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{
		"clients": []any{},
		"pagination": map[string]any{
			"page": float64(1), "limit": float64(10), "total": float64(0), "pages": float64(0),
		},
	}, body)

	code, body = s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "bob", body["user"].(map[string]any)["username"])
}

func TestRouter_AuthErrors(t *testing.T) {
	s := newTestServer(t, nil)
	s.signup("bob", "")

	code, body := s.do(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "bob@example.com", "password": "Wrong1234",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", body["message"])

	code, body = s.do(http.MethodGet, "/api/clients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Access denied. No token provided.", body["message"])

	code, body = s.do(http.MethodGet, "/api/clients", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token.", body["message"])

	code, body = s.do(http.MethodPost, "/api/auth/signup", "", map[string]any{
		"username": "bob", "email": "bob@example.com", "password": "Passw0rd",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "email already exists", body["message"])
}

func TestRouter_ValidationEnvelope(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.signup("bob", "")

	code, body := s.do(http.MethodPost, "/api/clients", token, map[string]any{"phone": "abc"})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Validation Error", body["message"])
	assert.Contains(t, body["errors"], "Name is required")
	assert.Contains(t, body["errors"], "Email is required")
	assert.Contains(t, body["errors"], "Please provide a valid phone number")

	code, body = s.do(http.MethodGet, "/api/projects?status=done", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Validation Error", body["message"])
}

func TestRouter_ClientLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := s.signup("alice", "")
	mallory, _ := s.signup("mallory", "")
	admin, _ := s.signup("root", "admin")

	id := s.createClient(alice, "acme")

	code, body := s.do(http.MethodGet, "/api/clients/"+id, alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "acme", body["name"])
	assert.Equal(t, "alice", body["createdBy"].(map[string]any)["username"])

	code, body = s.do(http.MethodGet, "/api/clients/"+id, mallory, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Client not found or access denied", body["message"])

	code, body = s.do(http.MethodGet, "/api/clients/123", alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid ID format", body["message"])

	code, body = s.do(http.MethodPut, "/api/clients/"+id, alice, map[string]any{
		"name": "Acme Corp", "email": "acme@clients.example.com", "industry": "Software",
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Client updated successfully", body["message"])
	assert.Equal(t, "Software", body["client"].(map[string]any)["industry"])

	code, _ = s.do(http.MethodPut, "/api/clients/"+id, alice, map[string]any{
		"name": "Acme Corp", "email": "acme@clients.example.com", "isActive": false,
	})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodGet, "/api/clients/"+id, alice, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = s.do(http.MethodDelete, "/api/clients/"+id, alice, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Access denied. Admin privileges required.", body["message"])

	code, body = s.do(http.MethodDelete, "/api/clients/"+id, admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Client deleted successfully", body["message"])

	code, _ = s.do(http.MethodGet, "/api/clients/"+id, alice, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_ProjectLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := s.signup("alice", "")
	bob, bobID := s.signup("bob", "")
	_, carolID := s.signup("carol", "")
	admin, _ := s.signup("root", "admin")

	clientID := s.createClient(alice, "acme")

	code, body := s.do(http.MethodPost, "/api/projects", alice, map[string]any{
		"name":        "Website",
		"client":      clientID,
		"teamMembers": []string{bobID, bobID},
		"tags":        []string{"web"},
	})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "Project created successfully", body["message"])
	project := body["project"].(map[string]any)
	id := project["id"].(string)
	assert.Equal(t, "planning", project["status"])
	assert.Equal(t, "medium", project["priority"])
	assert.Len(t, project["teamMembers"], 1)
	assert.Equal(t, "acme", project["client"].(map[string]any)["name"])

	// members can read and move status but not delete
	code, body = s.do(http.MethodPatch, "/api/projects/"+id+"/status", bob, map[string]any{"status": "in-progress"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Project status updated successfully", body["message"])
	assert.Equal(t, "in-progress", body["project"].(map[string]any)["status"])

	code, body = s.do(http.MethodPatch, "/api/projects/"+id+"/status", bob, map[string]any{"status": "done"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, service.InvalidStatusMessage(), body["message"])

	code, _ = s.do(http.MethodDelete, "/api/projects/"+id, bob, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = s.do(http.MethodGet, "/api/clients/"+clientID+"/projects", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "acme", body["client"].(map[string]any)["name"])
	assert.Len(t, body["projects"], 1)

	// team members
	code, body = s.do(http.MethodPost, "/api/projects/"+id+"/team-members", alice, map[string]any{"userId": carolID})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Team member added successfully", body["message"])
	assert.Len(t, body["teamMembers"], 2)

	code, body = s.do(http.MethodPost, "/api/projects/"+id+"/team-members", alice, map[string]any{"userId": carolID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User is already a team member", body["message"])

	code, body = s.do(http.MethodPost, "/api/projects/"+id+"/team-members", alice, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User ID is required", body["errors"].([]any)[0])

	code, body = s.do(http.MethodDelete, "/api/projects/"+id+"/team-members/"+carolID, alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Team member removed successfully", body["message"])
	assert.Len(t, body["teamMembers"], 1)

	// an active project blocks client deletion
	code, body = s.do(http.MethodDelete, "/api/clients/"+clientID, admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["message"], "Cannot delete client with active projects")

	code, body = s.do(http.MethodDelete, "/api/projects/"+id, alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Project deleted successfully", body["message"])

	code, body = s.do(http.MethodGet, "/api/projects?isActive=false", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["projects"], 1)
}

func TestRouter_RouteNotFound(t *testing.T) {
	s := newTestServer(t, nil)
	code, body := s.do(http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Route not found", body["message"])
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t, nil)

	code, body := s.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Server is running successfully!", body["message"])

	code, body = s.do(http.MethodGet, "/api/health/ready", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_AuthRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := newTestServer(t, redisdb.NewRateLimiter(rdb, 2, time.Minute))
	creds := map[string]any{"email": "nobody@example.com", "password": "Passw0rd"}

	for i := 0; i < 2; i++ {
		code, _ := s.do(http.MethodPost, "/api/auth/login", "", creds)
		require.Equal(t, http.StatusUnauthorized, code)
	}
	code, body := s.do(http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "Too many requests, please try again later.", body["message"])

	// signup has its own budget
	code, _ = s.do(http.MethodPost, "/api/auth/signup", "", map[string]any{
		"username": "bob", "email": "bob@example.com", "password": "Passw0rd",
	})
	assert.Equal(t, http.StatusCreated, code)
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(http.MethodGet, "/api/health", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tracker_requests_total")
}
