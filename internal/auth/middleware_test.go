package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laybackco/backend-garments/internal/common"
)

func loginAs(t *testing.T, svc *Service, queries *fakeQueries, name, email, role string) string {
	t.Helper()
	_, err := svc.Register(context.Background(), name, email, "password123")
	require.NoError(t, err)
	if role != RoleDefault {
		queries.mu.Lock()
		u := queries.byEmail[email]
		u.Role = role
		queries.byEmail[email] = u
		queries.byID[u.ID] = u
		queries.mu.Unlock()
	}
	result, err := svc.Login(context.Background(), email, "password123")
	require.NoError(t, err)
	return result.AccessToken
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	mw := Middleware{Service: newTestService(newFakeQueries())}
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAuthAttachesUserContext(t *testing.T) {
	queries := newFakeQueries()
	svc := newTestService(queries)
	token := loginAs(t, svc, queries, "Ada", "ada@example.com", RoleDefault)

	var gotID, gotRole string
	mw := Middleware{Service: svc}
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = common.UserID(r.Context())
		gotRole, _ = common.Role(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "1", gotID)
	require.Equal(t, RoleDefault, gotRole)
}

func TestRequireAdminForbidsCustomers(t *testing.T) {
	queries := newFakeQueries()
	svc := newTestService(queries)
	token := loginAs(t, svc, queries, "Ada", "ada@example.com", RoleDefault)

	mw := Middleware{Service: svc}
	handler := mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireAdminAllowsAdmins(t *testing.T) {
	queries := newFakeQueries()
	svc := newTestService(queries)
	token := loginAs(t, svc, queries, "Root", "root@example.com", RoleAdmin)

	mw := Middleware{Service: svc}
	handler := mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}
