package chart

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestQuickChartRender(t *testing.T) {
	img := tinyPNG(t)
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(img)
	}))
	defer srv.Close()

	spec := monthly()
	spec.Width, spec.Height = 500, 300
	data, err := NewQuickChart(srv.URL, time.Second).Render(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, img, data)

	assert.Equal(t, "500", query["w"])
	assert.Equal(t, "300", query["h"])
	assert.Equal(t, "png", query["format"])
	assert.Equal(t, "white", query["backgroundColor"])

	var sent Spec
	require.NoError(t, json.Unmarshal([]byte(query["c"]), &sent))
	assert.Equal(t, "bar", sent.Type)
	assert.Equal(t, spec.Data, sent.Data)
}

func TestQuickChartFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantErr: "500",
		},
		{
			name: "not an image",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>rate limited</html>"))
			},
			wantErr: "malformed image",
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			wantErr: "chart request failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewQuickChart(srv.URL, 100*time.Millisecond).Render(context.Background(), monthly())
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestQuickChartCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewQuickChart("http://127.0.0.1:1", time.Second).Render(ctx, monthly())
	assert.ErrorIs(t, err, context.Canceled)
}
