package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/errs"
)

func TestResendMailerPostsPayload(t *testing.T) {
	var got ResendEmailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	m := NewResendMailer("re_test", "Portfolio <no-reply@ana.dev>", zerolog.Nop())
	m.endpoint = srv.URL

	err := m.Send(context.Background(), Email{To: []string{"luis@example.com"}, Subject: "Hola", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, "Portfolio <no-reply@ana.dev>", got.From)
	assert.Equal(t, []string{"luis@example.com"}, got.To)
	assert.Equal(t, "<p>hi</p>", got.Html)
}

func TestResendMailerSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer srv.Close()

	m := NewResendMailer("re_test", "bad", zerolog.Nop())
	m.endpoint = srv.URL

	err := m.Send(context.Background(), Email{To: []string{"luis@example.com"}, Subject: "Hola"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")
}

func TestNewMailerDrivers(t *testing.T) {
	m, err := NewMailer(map[string]string{}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)

	_, err = NewMailer(map[string]string{"MAIL_DRIVER": "resend"}, zerolog.Nop())
	assert.True(t, errs.IsConfigError(err))

	m, err = NewMailer(map[string]string{"MAIL_DRIVER": "smtp", "SMTP_HOST": "smtp.example.com", "MAIL_FROM": "no-reply@ana.dev"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	_, err = NewMailer(map[string]string{"MAIL_DRIVER": "pigeon"}, zerolog.Nop())
	assert.Error(t, err)
}
