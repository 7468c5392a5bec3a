package assets

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/birdwheel/internal/conf"
	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/httpclient"
)

func TestFileSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "mallard.json"), []byte(`[]`), 0o600))

	src := NewFileSource(dir)

	data, err := src.Fetch(t.Context(), "data/mallard.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
	assert.Equal(t, filepath.Join(dir, "data", "mallard.json"), src.Locate("data/mallard.json"))
}

func TestFileSource_Errors(t *testing.T) {
	src := NewFileSource(t.TempDir())

	tests := []struct {
		name     string
		ref      string
		category errors.ErrorCategory
	}{
		{"missing file", "data/missing.json", errors.CategoryNotFound},
		{"empty ref", "", errors.CategoryValidation},
		{"absolute ref", "/etc/passwd", errors.CategoryValidation},
		{"escaping ref", "../secret.json", errors.CategoryValidation},
		{"nested escape", "data/../../secret.json", errors.CategoryValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := src.Fetch(t.Context(), tt.ref)
			require.Error(t, err)
			assert.True(t, errors.IsCategory(err, tt.category), "got %v", err)
		})
	}
}

func TestFileSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := NewFileSource(t.TempDir()).Fetch(ctx, "birds.json")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryCancellation))
}

func newMockedHTTPSource(t *testing.T) *HTTPSource {
	t.Helper()
	client := httpclient.New(nil)
	httpmock.ActivateNonDefault(client.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	src, err := NewHTTPSource("https://birds.example.com/assets", client)
	require.NoError(t, err)
	return src
}

func TestHTTPSource_Fetch(t *testing.T) {
	src := newMockedHTTPSource(t)
	httpmock.RegisterResponder(http.MethodGet, "https://birds.example.com/assets/birds.json",
		httpmock.NewStringResponder(http.StatusOK, `[{"title":"Mallard"}]`))

	data, err := src.Fetch(t.Context(), "birds.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title":"Mallard"}]`, string(data))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestHTTPSource_StatusError(t *testing.T) {
	src := newMockedHTTPSource(t)
	httpmock.RegisterResponder(http.MethodGet, "https://birds.example.com/assets/data/mallard.json",
		httpmock.NewStringResponder(http.StatusInternalServerError, "boom"))

	_, err := src.Fetch(t.Context(), "data/mallard.json")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNetwork))

	var enhanced *errors.EnhancedError
	require.ErrorAs(t, err, &enhanced)
	assert.Equal(t, http.StatusInternalServerError, enhanced.GetContext()["status_code"])
}

func TestHTTPSource_Timeout(t *testing.T) {
	client := httpclient.New(&httpclient.Config{DefaultTimeout: 20 * time.Millisecond})
	httpmock.ActivateNonDefault(client.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder(http.MethodGet, "https://birds.example.com/assets/birds.json",
		func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		})

	src, err := NewHTTPSource("https://birds.example.com/assets", client)
	require.NoError(t, err)

	_, err = src.Fetch(t.Context(), "birds.json")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryTimeout), "got %v", err)

	var enhanced *errors.EnhancedError
	require.ErrorAs(t, err, &enhanced)
	assert.Equal(t, "fetch", enhanced.GetContext()["operation"])
	assert.Contains(t, enhanced.GetContext(), "duration_ms")
}

func TestHTTPSource_Locate(t *testing.T) {
	src, err := NewHTTPSource("https://birds.example.com/assets", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://birds.example.com/assets/audio/mallard.wav", src.Locate("audio/mallard.wav"))
}

func TestNewHTTPSource_InvalidURL(t *testing.T) {
	_, err := NewHTTPSource("not a url", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestMemorySource(t *testing.T) {
	src := NewMemorySource(map[string][]byte{"birds.json": []byte("[]")})
	src.Put("data/mallard.json", []byte(`[{"Time":1}]`))

	data, err := src.Fetch(t.Context(), "data/mallard.json")
	require.NoError(t, err)
	assert.Equal(t, `[{"Time":1}]`, string(data))

	_, err = src.Fetch(t.Context(), "data/missing.json")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestNewSource(t *testing.T) {
	settings := conf.Default()

	settings.Data.BaseURL = ""
	settings.Data.BaseDir = t.TempDir()
	src, err := NewSource(settings)
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	settings.Data.BaseURL = "https://birds.example.com/"
	src, err = NewSource(settings)
	require.NoError(t, err)
	assert.IsType(t, &HTTPSource{}, src)
}
