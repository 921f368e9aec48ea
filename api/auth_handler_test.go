package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

func TestLoginIssuesTokenForMe(t *testing.T) {
	s := newTestServer(t, nil)
	s.login()
	require.NotEmpty(t, s.token)

	rec := s.doJSON(http.MethodGet, "/admin/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "admin@example.com", body["subject"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.doJSON(http.MethodPost, "/admin/login", map[string]string{"email": "admin@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.doJSON(http.MethodPost, "/admin/login", map[string]string{"email": "other@example.com", "password": testPassword})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.doJSON(http.MethodPost, "/admin/login", map[string]string{"email": "admin@example.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorFields(t, rec), "password")
}

func TestLoginWithBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	s := newTestServer(t, map[string]string{"ADMIN_PASSWORD_HASH": string(hash)})

	rec := s.doJSON(http.MethodPost, "/admin/login", map[string]string{"email": "ADMIN@example.com", "password": "hashed-pass"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// the hash takes precedence over the plain password
	rec = s.doJSON(http.MethodPost, "/admin/login", map[string]string{"email": "admin@example.com", "password": testPassword})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.doJSON(http.MethodGet, "/admin/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, s.do(req).Code)
}

func TestTokenIssuerExpiry(t *testing.T) {
	clock := models.FixedClock{T: testNow}
	issuer := newTokenIssuer("secret", time.Hour, clock)

	token, expiresAt, err := issuer.issue("admin")
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(time.Hour), expiresAt)

	subject, err := issuer.parse(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)

	late := newTokenIssuer("secret", time.Hour, models.FixedClock{T: testNow.Add(2 * time.Hour)})
	_, err = late.parse(token)
	assert.Error(t, err)

	other := newTokenIssuer("other-secret", time.Hour, clock)
	_, err = other.parse(token)
	assert.Error(t, err)
}

func TestTokenIssuerWithoutSecret(t *testing.T) {
	issuer := newTokenIssuer("", time.Hour, models.FixedClock{T: testNow})
	_, _, err := issuer.issue("admin")
	assert.Error(t, err)
}
