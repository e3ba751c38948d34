package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digitaltalent/career-wizard/internal/repositories"
	"digitaltalent/career-wizard/internal/services"
	"digitaltalent/career-wizard/internal/wizard"
)

// newBackend imitates the career backend's four endpoints.
func newBackend(t *testing.T, parseStatus int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/parse-cv", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(parseStatus)
		io.WriteString(w, `{"text":"Siti Rahma\nData Analyst\nSQL, Python, Tableau"}`)
	})
	mux.HandleFunc("/api/match-profile", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"recommendations":[
			{"id":"OKP-2","nama":"Data Analyst","score":0.874,"gap":"Skill Gap Analysis requires detailed comparison."},
			{"id":"OKP-7","nama":"Business Intelligence Analyst","score":0.801,"gap":""},
			{"id":"OKP-1","nama":"Data Engineer","score":0.722,"gap":"Spark"}]}`)
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"response":"Fokus pada SQL lanjutan dan dashboard."}`)
	})
	mux.HandleFunc("/api/courses", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"title":"SQL 1"},{"title":"SQL 2"},{"title":"Tableau"},{"title":"Python"},{"title":"Statistik"}]`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, parseStatus int) *fiber.App {
	t.Helper()

	backend := newBackend(t, parseStatus)
	client := backend.Client()

	manager := wizard.NewManager(wizard.Dependencies{
		Profiles: repositories.NewProfileRepository(repositories.NewMemoryStore()),
		Parser:   services.NewRemoteParser(backend.URL, client),
		Storage:  services.NewLocalStorage(t.TempDir()),
		Matcher:  services.NewRemoteMatcher(backend.URL, client),
		Chat:     services.NewRemoteChat(backend.URL, client),
		Courses:  services.NewRemoteCourses(backend.URL, client),
		Jobs:     services.NewStaticJobFeed(),
	}, wizard.Options{
		Matching:    wizard.MatchingOptions{TopK: 3},
		CourseLimit: 4,
		MaxFileSize: 2 << 20,
	})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	SetupRoutes(app, manager, 2<<20, "remote")
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func uploadRequest(t *testing.T, path, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func createSession(t *testing.T, app *fiber.App) string {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "intake", body["step"])
	return body["token"].(string)
}

func TestWizardFlow(t *testing.T) {
	app := newTestApp(t, http.StatusOK)
	token := createSession(t, app)
	base := "/api/v1/sessions/" + token

	// intake
	status, body := send(t, app, uploadRequest(t, base+"/cv", "cv.pdf", "%PDF-1.4 fake"))
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Siti Rahma", body["default_name"])
	assert.True(t, strings.HasPrefix(body["text"].(string), "Siti Rahma\nData Analyst"))

	status, body = doJSON(t, app, http.MethodPost, base+"/profile", map[string]string{
		"name":    "Siti R.",
		"cv_text": body["text"].(string),
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "matching", body["next"])

	// matching
	status, body = doJSON(t, app, http.MethodGet, base+"/matching", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["state"])
	candidates := body["candidates"].([]any)
	require.Len(t, candidates, 3)
	first := candidates[0].(map[string]any)
	assert.Equal(t, "OKP-2", first["id"])
	assert.Equal(t, float64(87), first["match_percent"])
	assert.Equal(t, "Analisis gap belum tersedia", candidates[1].(map[string]any)["gap_text"])

	status, body = doJSON(t, app, http.MethodPost, base+"/matching/select", map[string]string{"id": "OKP-2"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["stay"])
	assert.Equal(t, true, body["persisted"])

	status, body = doJSON(t, app, http.MethodPost, base+"/matching/select", map[string]string{"id": "OKP-2"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["persisted"])

	// panels
	status, body = doJSON(t, app, http.MethodGet, base+"/panels", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body["courses"].([]any), 4)
	assert.Len(t, body["search"].([]any), 6)
	assert.NotEmpty(t, body["jobs"])

	status, body = doJSON(t, app, http.MethodPost, base+"/search/copy", map[string]string{"site": "linkedin"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, `"Data Analyst" AND ("Junior" OR "Associate" OR "Entry Level")`, body["text"])
	assert.Equal(t, "Query berhasil disalin!", body["message"])

	// assistant
	status, body = doJSON(t, app, http.MethodGet, base+"/assistant", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["messages"].([]any), 1)
	assert.Equal(t, "Data Analyst", body["target"].(map[string]any)["nama"])

	status, body = doJSON(t, app, http.MethodPost, base+"/assistant/messages", map[string]string{"message": "Apa langkah berikutnya?"})
	require.Equal(t, http.StatusOK, status)
	messages := body["messages"].([]any)
	require.Len(t, messages, 3)
	assert.Equal(t, "Fokus pada SQL lanjutan dan dashboard.", messages[2].(map[string]any)["content"])

	status, body = doJSON(t, app, http.MethodPost, base+"/assistant/reset", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["messages"].([]any), 1)

	// start over
	status, _ = doJSON(t, app, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = doJSON(t, app, http.MethodGet, base+"/matching", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestParseFailureIsUnprocessable(t *testing.T) {
	app := newTestApp(t, http.StatusInternalServerError)
	token := createSession(t, app)

	status, body := send(t, app, uploadRequest(t, "/api/v1/sessions/"+token+"/cv", "cv.pdf", "%PDF"))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Gagal membaca CV. Silakan coba lagi atau isi manual.", body["error"])

	// manual entry still works
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/sessions/"+token+"/profile", map[string]string{
		"name": "Budi", "cv_text": "Backend developer, Go",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "matching", body["next"])
}

func TestValidationErrors(t *testing.T) {
	app := newTestApp(t, http.StatusOK)
	token := createSession(t, app)
	base := "/api/v1/sessions/" + token

	status, body := doJSON(t, app, http.MethodPost, base+"/profile", map[string]string{"name": "Budi", "cv_text": "  "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Mohon isi atau upload CV terlebih dahulu.", body["error"])
	assert.Equal(t, float64(http.StatusBadRequest), body["code"])

	req := httptest.NewRequest(http.MethodPost, base+"/cv", strings.NewReader(""))
	status, _ = send(t, app, req)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, base+"/assistant/messages", map[string]string{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, base+"/matching/select", map[string]string{"id": ""})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStepPreconditions(t *testing.T) {
	app := newTestApp(t, http.StatusOK)
	token := createSession(t, app)
	base := "/api/v1/sessions/" + token

	status, body := doJSON(t, app, http.MethodGet, base+"/matching", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "redirect", body["state"])
	assert.Equal(t, "intake", body["redirect"])

	status, _ = doJSON(t, app, http.MethodPost, base+"/matching/select", map[string]string{"id": "OKP-2"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = doJSON(t, app, http.MethodGet, base+"/panels", nil)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = doJSON(t, app, http.MethodGet, base+"/assistant", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestUnknownSession(t *testing.T) {
	app := newTestApp(t, http.StatusOK)

	for _, path := range []string{
		"/api/v1/sessions/00000000-0000-0000-0000-000000000000/matching",
		"/api/v1/sessions/garbage/assistant",
	} {
		status, body := doJSON(t, app, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, wizard.MsgUnknownSession, body["error"])
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, http.StatusOK)
	createSession(t, app)

	status, body := doJSON(t, app, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "remote", body["backend"])
	assert.Equal(t, float64(1), body["sessions"])
}
