package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// MemoryTokenStore keeps the slot in process memory. It is the default for
// tests and for callers that do not want persistence across restarts.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

var _ TokenStore = (*MemoryTokenStore)(nil)

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (m *MemoryTokenStore) Read(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *MemoryTokenStore) Write(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryTokenStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

type tokenSlotFile struct {
	Token string `json:"token"`
}

// FileTokenStore keeps the slot in a single JSON file so the session
// survives process restarts. A missing file reads as an empty slot.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

var _ TokenStore = (*FileTokenStore)(nil)

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (f *FileTokenStore) Read(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	var slot tokenSlotFile
	if err := json.Unmarshal(data, &slot); err != nil {
		// a corrupt slot is an empty slot; bootstrap will settle the state
		return "", nil
	}

	return slot.Token, nil
}

func (f *FileTokenStore) Write(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(tokenSlotFile{Token: token})
	if err != nil {
		return err
	}

	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileTokenStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
