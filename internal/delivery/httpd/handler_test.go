package httpd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docudetect/docu-detect/internal/config"
	"github.com/docudetect/docu-detect/internal/models"
	"github.com/docudetect/docu-detect/internal/repository"
	"github.com/docudetect/docu-detect/internal/service"
	"github.com/docudetect/docu-detect/internal/service/analyzer"
	"github.com/docudetect/docu-detect/internal/service/auth"
	"github.com/docudetect/docu-detect/internal/service/citation"
	"github.com/docudetect/docu-detect/internal/service/extractor"
	"github.com/docudetect/docu-detect/internal/service/mailer"
	"github.com/docudetect/docu-detect/internal/service/report"
	"github.com/docudetect/docu-detect/internal/service/summarizer"
	"github.com/docudetect/docu-detect/internal/storage"
	"github.com/docudetect/docu-detect/internal/worker"
)

type noMatchSearcher struct{}

func (noMatchSearcher) HasMatch(ctx context.Context, title string) (bool, error) {
	return false, nil
}

type testEnv struct {
	router  chi.Router
	store   *storage.LocalStorage
	history *repository.MemoryHistoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zerolog.Nop()

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	history := repository.NewMemoryHistoryStore()
	authService := auth.NewService(repository.NewMemoryUserStore(), config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		Issuer:    "docu-detect",
	}, log)

	pipeline := service.NewPipelineService(
		extractor.New(store, log),
		summarizer.New(nil, config.SummarizerConfig{FallbackWords: 10}, log),
		analyzer.NewPlagiarismChecker(t.TempDir(), log),
		citation.NewValidator(noMatchSearcher{}, 2, log),
		report.NewRenderer(store, log),
		history,
		log,
	)

	mailService := mailer.NewService(config.SMTPConfig{}, store, log)
	dispatcher := worker.NewInlineDispatcher(mailService)

	handler := NewHandler(pipeline, authService, history, store, dispatcher, 32<<20, log)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	return &testEnv{router: router, store: store, history: history}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) registerAndLogin(t *testing.T) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/auth/register", "", models.RegisterRequest{
		Email:      "alice@example.com",
		Username:   "alice",
		Password:   "s3cret",
		Profession: "researcher",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)
	return body.Data.Token
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "", models.RegisterRequest{
		Email: "incomplete@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateConflict(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "", models.RegisterRequest{
		Email:      "alice@example.com",
		Username:   "alice",
		Password:   "s3cret",
		Profession: "researcher",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t)

	rec := env.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/history", "/pdf/report/some-id"} {
		rec := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}

	rec := env.do(t, http.MethodGet, "/history", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHistoryEmptyForNewUser(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	rec := env.do(t, http.MethodGet, "/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []*models.AnalysisRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotNil(t, body.Data)
	assert.Empty(t, body.Data)
}

func TestDownloadReportNotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	rec := env.do(t, http.MethodGet, "/pdf/report/no-such-id", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadReportServesArtifact(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	require.NoError(t, env.store.Save(context.Background(), report.ArtifactKey("r1"), []byte("%PDF-fake")))

	rec := env.do(t, http.MethodGet, "/pdf/report/r1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "r1.pdf")
	assert.Equal(t, "%PDF-fake", rec.Body.String())
}

func TestSendEmailReportNotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	rec := env.do(t, http.MethodPost, "/pdf/send-email/no-such-id", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendEmailNotConfigured(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	require.NoError(t, env.store.Save(context.Background(), report.ArtifactKey("r1"), []byte("%PDF-fake")))

	rec := env.do(t, http.MethodPost, "/pdf/send-email/r1", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUploadRequiresMultipart(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	rec := env.do(t, http.MethodPost, "/pdf/upload", token, map[string]string{"not": "a form"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
