// Package imagehost uploads avatar pictures to an unsigned image upload
// endpoint and returns their public URL.
package imagehost

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultUploadURL = "https://api.cloudinary.com/v1_1/dauhkaecb/image/upload"
	DefaultPreset    = "unsigned_preset"

	defaultTimeout = 30 * time.Second
)

type Config struct {
	URL        string
	Preset     string
	HTTPClient *http.Client
}

// Uploader implements ports.ImageHost.
type Uploader struct {
	url    string
	preset string
	http   *http.Client
	log    zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Uploader {
	if cfg.URL == "" {
		cfg.URL = DefaultUploadURL
	}
	if cfg.Preset == "" {
		cfg.Preset = DefaultPreset
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Uploader{url: cfg.URL, preset: cfg.Preset, http: cfg.HTTPClient, log: log}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts the picture as the "file" part together with the upload
// preset and returns the secure_url of the stored image.
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUpload(mw, u.preset, filename, r))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, pr)
	if err != nil {
		_ = pr.Close()
		return "", fmt.Errorf("image upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("image upload: %w", err)
	}
	defer resp.Body.Close()

	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("image upload: decode response (%d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 300 || body.SecureURL == "" {
		msg := http.StatusText(resp.StatusCode)
		if body.Error != nil {
			msg = body.Error.Message
		}
		u.log.Error().Int("status", resp.StatusCode).Str("filename", filename).Msg("image upload rejected")
		return "", fmt.Errorf("image upload: %d %s", resp.StatusCode, msg)
	}

	u.log.Debug().Str("filename", filename).Str("url", body.SecureURL).Msg("image uploaded")
	return body.SecureURL, nil
}

func writeUpload(mw *multipart.Writer, preset, filename string, r io.Reader) error {
	if err := mw.WriteField("upload_preset", preset); err != nil {
		return err
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	return mw.Close()
}
