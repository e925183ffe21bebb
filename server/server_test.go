package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/flanksource/informe/chart"
	"github.com/flanksource/informe/pdf"
	"github.com/flanksource/informe/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	err   error
	calls int
}

func (f *fakeRenderer) Render(_ context.Context, rep *report.Report) (*report.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &report.Result{PDF: []byte("%PDF-1.3 fake"), Filename: rep.Filename(), Pages: 1}, nil
}

func payload(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../report/testdata/informe_v2.json")
	require.NoError(t, err)
	return data
}

func do(t *testing.T, h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	msg, _ := body["error"].(string)
	return msg
}

func TestCreatePDF(t *testing.T) {
	r := &fakeRenderer{}
	h := New(r, Options{}).Handler()

	rec := do(t, h, http.MethodPost, CreatePDFPath, payload(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Metropolitana_de_Santiago_marzo.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "%PDF-1.3 fake", rec.Body.String())
	assert.Equal(t, 1, r.calls)
}

func TestCreatePDFValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "not json", body: "{", want: "objeto JSON"},
		{name: "array", body: "[]", want: "objeto JSON"},
		{name: "missing fields", body: `{"datosGenerales": {}}`, want: "Faltan campos requeridos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRenderer{}
			rec := do(t, New(r, Options{}).Handler(), http.MethodPost, CreatePDFPath, []byte(tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeError(t, rec), tt.want)
			assert.Zero(t, r.calls, "renderer must not run on invalid input")
		})
	}
}

func TestCreatePDFRenderError(t *testing.T) {
	r := &fakeRenderer{err: errors.New("font missing")}
	rec := do(t, New(r, Options{}).Handler(), http.MethodPost, CreatePDFPath, payload(t))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, RenderFailed, decodeError(t, rec))
	assert.NotContains(t, rec.Body.String(), "font missing")
}

func TestCreatePDFBodyLimit(t *testing.T) {
	r := &fakeRenderer{}
	body := []byte(`{"comentarios": "` + strings.Repeat("x", 2048) + `"}`)
	rec := do(t, New(r, Options{MaxBodyBytes: 512}).Handler(), http.MethodPost, CreatePDFPath, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, r.calls)
}

func TestRoutes(t *testing.T) {
	h := New(&fakeRenderer{}, Options{CORSOrigin: "https://example.org", Version: "1.2.3"}).Handler()

	t.Run("preflight", func(t *testing.T) {
		rec := do(t, h, http.MethodOptions, CreatePDFPath, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://example.org", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("root redirects", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, CreatePDFPath, rec.Header().Get("Location"))
	})

	t.Run("health", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, HealthPath, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "1.2.3", body["version"])
	})

	t.Run("get create-pdf not allowed", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, CreatePDFPath, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

// The whole pipeline with the offline chart renderer and core fonts.
func TestCreatePDFEndToEnd(t *testing.T) {
	renderer := report.NewRenderer(pdf.AssetConfig{}, chart.Local{})
	srv := httptest.NewServer(New(renderer, Options{}).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+CreatePDFPath, "application/json", bytes.NewReader(payload(t)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	pages, err := pdf.PageCount(buf.Bytes())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pages, 1)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(&fakeRenderer{}, Options{}).ListenAndServe(ctx, "127.0.0.1:0", time.Second, time.Second)
	}()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
