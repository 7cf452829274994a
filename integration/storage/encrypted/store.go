package encrypted

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/clinreg/clinreg-go/core/session"
)

// Store is a session.Store persisted to a single encrypted file, intended
// for desktop shells where tokens must not land on disk in plaintext.
// The file holds an XChaCha20-Poly1305 sealed JSON map, nonce-prefixed.
type Store struct {
	path string
	aead cipher.AEAD
	mu   sync.Mutex
}

// NewStore creates a store writing to path, sealed with the given
// 32-byte key. The file is created lazily on first write.
func NewStore(path string, key []byte) (*Store, error) {
	if path == "" {
		return nil, ErrMissingPath
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(key), chacha20poly1305.KeySize)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	return &Store{path: path, aead: aead}, nil
}

// Get implements session.Store. Missing keys yield an empty string.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

// Set implements session.Store.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// Remove implements session.Store. Removing an absent key is a no-op.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

// load decrypts the backing file into a key/value map. A missing file is an
// empty store.
func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}

	if len(data) < s.aead.NonceSize() {
		return nil, ErrCorruptStore
	}
	nonce, sealed := data[:s.aead.NonceSize()], data[s.aead.NonceSize():]

	plain, err := s.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, errors.Join(ErrCorruptStore, err)
	}

	values := make(map[string]string)
	if err := json.Unmarshal(plain, &values); err != nil {
		return nil, errors.Join(ErrCorruptStore, err)
	}
	return values, nil
}

// save seals the map with a fresh nonce and replaces the file atomically.
func (s *Store) save(values map[string]string) error {
	plain, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, plain, nil)

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

var _ session.Store = (*Store)(nil)
