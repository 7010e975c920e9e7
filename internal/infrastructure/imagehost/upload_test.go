package imagehost

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "unsigned_preset", r.FormValue("upload_preset"))

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "avatar.jpg", hdr.Filename)
		assert.Equal(t, "jpeg bytes", string(data))

		_, _ = io.WriteString(w, `{"secure_url":"https://cdn.example/a.jpg"}`)
	}))
	defer srv.Close()

	u := New(Config{URL: srv.URL}, zerolog.Nop())
	url, err := u.Upload(context.Background(), "avatar.jpg", strings.NewReader("jpeg bytes"))

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/a.jpg", url)
}

func TestUpload_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"Upload preset not found"}}`)
	}))
	defer srv.Close()

	u := New(Config{URL: srv.URL, Preset: "missing"}, zerolog.Nop())
	_, err := u.Upload(context.Background(), "a.jpg", strings.NewReader("x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Upload preset not found")
}
