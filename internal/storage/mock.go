package storage

import (
	"context"
	"io"
	"sync"
)

// MockUploader keeps uploaded files in memory.
type MockUploader struct {
	mu sync.Mutex

	BaseURL    string
	Files      map[string][]byte
	UploadFunc func(key string) error

	DeleteCalls []string
}

var _ FileUploader = (*MockUploader)(nil)

func NewMockUploader() *MockUploader {
	return &MockUploader{BaseURL: "https://cdn.test", Files: map[string][]byte{}}
}

func (m *MockUploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadFunc != nil {
		if err := m.UploadFunc(key); err != nil {
			return "", err
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.Files[key] = data
	return PublicURL(m.BaseURL, key)
}

func (m *MockUploader) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, key)
	delete(m.Files, key)
	return nil
}
