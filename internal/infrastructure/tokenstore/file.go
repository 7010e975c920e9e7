// Package tokenstore persists the access token of a terminal session in a
// single encrypted file.
package tokenstore

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/oubuilding/apartment-client/internal/core/ports"
)

const nonceSize = 24

// ErrCorrupt is returned when the token file cannot be opened with the key.
var ErrCorrupt = errors.New("token file is corrupt or sealed with another key")

// File is a ports.TokenStore sealing the token with nacl/secretbox.
// The file holds nonce || box and is written with 0600 permissions.
type File struct {
	path string
	key  [32]byte
	mu   sync.Mutex
}

// NewFile returns the slot stored at path. The sealing key is derived from
// secret with HKDF-SHA256.
func NewFile(path string, secret []byte) (*File, error) {
	if len(secret) == 0 {
		return nil, errors.New("token file: empty key")
	}
	f := &File{path: path}
	kdf := hkdf.New(sha256.New, secret, nil, []byte("apartment-client token file"))
	if _, err := io.ReadFull(kdf, f.key[:]); err != nil {
		return nil, fmt.Errorf("derive token key: %w", err)
	}
	return f, nil
}

func (f *File) Load(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ports.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	if len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrCorrupt
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &f.key)
	if !ok {
		return "", ErrCorrupt
	}
	if len(plain) == 0 {
		return "", ports.ErrNoToken
	}
	return string(plain), nil
}

func (f *File) Save(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("token nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(token), &nonce, &f.key)

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

func (f *File) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
