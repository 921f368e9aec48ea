package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rpupo63/portfolio-cms-backend/testutil"
)

const testPassword = "s3cret-pass"

var testNow = time.Date(2025, time.April, 10, 12, 0, 0, 0, time.UTC)

// pngBytes is enough for content sniffing
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R', 0, 0, 0, 1}

type memoryStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{files: map[string][]byte{}}
}

func (s *memoryStore) Save(ctx context.Context, path string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

func (s *memoryStore) URL(path string) string {
	return "/storage/" + path
}

func (s *memoryStore) has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []services.Email
}

func (m *recordingMailer) Send(ctx context.Context, email services.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return nil
}

type testServer struct {
	t      *testing.T
	router *chi.Mux
	db     *gorm.DB
	store  *memoryStore
	mailer *recordingMailer
	token  string
}

func newTestServer(t *testing.T, overrides map[string]string) *testServer {
	t.Helper()

	cfg := map[string]string{
		"JWT_SECRET":              "test-secret",
		"ADMIN_EMAIL":             "admin@example.com",
		"BACKEND_PASSWORD":        testPassword,
		"ADMIN_NOTIFY_EMAIL":      "owner@example.com",
		"CONTACT_RATE_PER_MINUTE": "60",
	}
	for k, v := range overrides {
		cfg[k] = v
	}

	db := testutil.NewDB(t)
	s := &testServer{t: t, db: db, store: newMemoryStore(), mailer: &recordingMailer{}}
	s.router = newRouter(database.New(db),
		withConfig(cfg),
		withStartupTime(testNow),
		withStore(s.store),
		withMailer(s.mailer),
		withSite(config.Site{Name: "Portfolio", BaseURL: "https://example.com", Locale: "es_ES"}),
		withClock(models.FixedClock{T: testNow}),
	)
	return s
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	if s.token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(method, target string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(s.t, err)
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

// login stores a fresh admin token for the following requests
func (s *testServer) login() {
	s.t.Helper()
	rec := s.doJSON(http.MethodPost, "/admin/login", map[string]string{"email": "admin@example.com", "password": testPassword})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp LoginResponse
	decode(s.t, rec, &resp)
	s.token = resp.Token
}

func (s *testServer) upload(method, target, field, name string, content []byte, extra map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if content != nil {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(s.t, err)
		_, err = part.Write(content)
		require.NoError(s.t, err)
	}
	for k, v := range extra {
		require.NoError(s.t, mw.WriteField(k, v))
	}
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func errorFields(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var resp ErrorResponse
	decode(t, rec, &resp)
	return resp.Fields
}
