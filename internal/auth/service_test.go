package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/require"

	"github.com/laybackco/backend-garments/internal/common"
)

func TestRegisterHashesPassword(t *testing.T) {
	queries := newFakeQueries()
	svc := newTestService(queries)

	user, err := svc.Register(context.Background(), "Ada", "Ada@Example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, RoleDefault, user.Role)

	stored := queries.byEmail["ada@example.com"]
	require.NotEqual(t, "correct horse", stored.passwordHash)
	match, err := argon2id.ComparePasswordAndHash("correct horse", stored.passwordHash)
	require.NoError(t, err)
	require.True(t, match)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	queries := newFakeQueries()
	svc := newTestService(queries)

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Ada Again", "ada@example.com", "battery staple")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusConflict, appErr.HTTPStatus)
	require.Equal(t, "EMAIL_ALREADY_USED", appErr.Code)
}

func TestLoginIssuesParseableToken(t *testing.T) {
	queries := newFakeQueries()
	svc := newTestService(queries)

	registered, err := svc.Register(context.Background(), "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "ada@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, registered.ID, result.User.ID)
	require.NotEmpty(t, result.AccessToken)
	require.True(t, result.AccessExpiry.After(time.Now()))

	userID, role, err := svc.ParseAccessToken(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, registered.ID, userID)
	require.Equal(t, RoleDefault, role)
}

func TestLoginWrongPassword(t *testing.T) {
	queries := newFakeQueries()
	svc := newTestService(queries)

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ada@example.com", "wrong password")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
	require.Equal(t, "INVALID_CREDENTIALS", appErr.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(newFakeQueries())
	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "INVALID_CREDENTIALS", appErr.Code)
}

func TestParseAccessTokenExpired(t *testing.T) {
	queries := newFakeQueries()
	svc := newTestService(queries)

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)

	issuedAt := time.Now().Add(-time.Hour)
	svc.WithNow(func() time.Time { return issuedAt })
	result, err := svc.Login(context.Background(), "ada@example.com", "correct horse")
	require.NoError(t, err)

	svc.WithNow(time.Now)
	_, _, err = svc.ParseAccessToken(result.AccessToken)
	require.Error(t, err)
}

func TestParseAccessTokenRejectsGarbageAndWrongKey(t *testing.T) {
	svc := newTestService(newFakeQueries())

	_, _, err := svc.ParseAccessToken("not-a-token")
	require.Error(t, err)

	other := newFakeQueries()
	otherSvc, err := NewService(Config{Queries: other, Secret: "a-different-secret"})
	require.NoError(t, err)

	_, regErr := otherSvc.Register(context.Background(), "Eve", "eve@example.com", "password123")
	require.NoError(t, regErr)
	foreign, loginErr := otherSvc.Login(context.Background(), "eve@example.com", "password123")
	require.NoError(t, loginErr)

	_, _, err = svc.ParseAccessToken(foreign.AccessToken)
	require.Error(t, err)
}
