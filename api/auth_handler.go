package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/validation"
)

const tokenIssuerName = "portfolio-cms"

// tokenIssuer signs and verifies HS256 admin session tokens
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  models.Clock
}

func newTokenIssuer(secret string, ttl time.Duration, clock models.Clock) tokenIssuer {
	return tokenIssuer{secret: []byte(secret), ttl: ttl, clock: clock}
}

func (t tokenIssuer) issue(subject string) (string, time.Time, error) {
	if len(t.secret) == 0 {
		return "", time.Time{}, errs.NewConfigMissingError("JWT_SECRET")
	}
	now := t.clock.Now()
	expiresAt := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    tokenIssuerName,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, errs.NewInternalErrorWithCause("failed to sign token", err)
	}
	return signed, expiresAt, nil
}

// parse returns the token subject when the signature, issuer and expiry check out
func (t tokenIssuer) parse(raw string) (string, error) {
	if len(t.secret) == 0 {
		return "", errors.New("token secret is not configured")
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.clock.Now),
	)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// credentials is the configured admin identity
type credentials struct {
	email        string
	passwordHash string
	password     string
}

func (c credentials) configured() bool {
	return c.passwordHash != "" || c.password != ""
}

func (c credentials) check(email, password string) bool {
	if c.email != "" && !strings.EqualFold(strings.TrimSpace(email), c.email) {
		return false
	}
	if c.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(c.passwordHash), []byte(password)) == nil
	}
	if c.password != "" {
		return subtle.ConstantTimeCompare([]byte(c.password), []byte(password)) == 1
	}
	return false
}

func (c credentials) subject() string {
	if c.email != "" {
		return c.email
	}
	return "admin"
}

type authHandler struct {
	responder   Responder
	logger      zerolog.Logger
	validator   *validation.Validator
	tokens      tokenIssuer
	credentials credentials
}

func newAuthHandler(v *validation.Validator, tokens tokenIssuer, creds credentials) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		validator:   v,
		tokens:      tokens,
		credentials: creds,
	}
}

type loginInput struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the admin session token
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// login exchanges the admin credentials for a session token
// @Summary Admin login
// @Description Exchanges the admin email and password for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body loginInput true "Admin credentials"
// @Success 200 {object} LoginResponse "Session token"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid credentials"
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Validation failed"
// @Router /admin/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in loginInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.validator.Struct(&in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if !h.credentials.configured() {
			h.logger.Warn().Msg("Login attempted but no admin password is configured")
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}
		if !h.credentials.check(in.Email, in.Password) {
			h.logger.Info().Str("email", in.Email).Str("ip", clientIP(r)).Msg("Rejected admin login")
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		token, expiresAt, err := h.tokens.issue(h.credentials.subject())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, LoginResponse{
			Token:     token,
			TokenType: "Bearer",
			ExpiresAt: expiresAt,
		})
	}
}

// me reports who the current token belongs to
// @Summary Current admin
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /admin/me [get]
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := ctxGetAdmin(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}
		h.responder.WriteJSON(w, map[string]string{"subject": subject})
	}
}
