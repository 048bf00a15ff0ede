package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/repository/storage"
)

// ErrMockWrite is returned by mocks configured to fail writes
var ErrMockWrite = errors.New("mock write failure")

// MockKVStore is a mock implementation of domain.KeyValueStore
type MockKVStore struct {
	mu   sync.Mutex
	Data map[string][]byte

	// FailAfter makes every write after the first N successful ones fail.
	// Negative disables the failure.
	FailAfter int
	Writes    int
	GetErr    error
}

// NewMockKVStore creates a new MockKVStore
func NewMockKVStore() *MockKVStore {
	return &MockKVStore{
		Data:      make(map[string][]byte),
		FailAfter: -1,
	}
}

// Get returns the stored value for key
func (m *MockKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.Data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a single value
func (m *MockKVStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkWrite(); err != nil {
		return err
	}
	m.Data[key] = append([]byte(nil), value...)
	return nil
}

// SetMany stores every entry as one write
func (m *MockKVStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkWrite(); err != nil {
		return err
	}
	for k, v := range entries {
		m.Data[k] = append([]byte(nil), v...)
	}
	return nil
}

// Delete removes a key
func (m *MockKVStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkWrite(); err != nil {
		return err
	}
	delete(m.Data, key)
	return nil
}

// Raw returns the stored value as a string, for assertions
func (m *MockKVStore) Raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.Data[key])
}

// WriteCount returns the number of successful writes
func (m *MockKVStore) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Writes
}

// SetFailAfter arms the write failure
func (m *MockKVStore) SetFailAfter(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailAfter = m.Writes + n
}

// ClearFailure disarms the write failure
func (m *MockKVStore) ClearFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailAfter = -1
}

func (m *MockKVStore) checkWrite() error {
	if m.FailAfter >= 0 && m.Writes >= m.FailAfter {
		return ErrMockWrite
	}
	m.Writes++
	return nil
}

// MockObjectRepository is a mock implementation of storage.ObjectRepository
type MockObjectRepository struct {
	mu          sync.Mutex
	Objects     map[string][]byte
	ContentType map[string]string
	Modified    map[string]time.Time
	Deleted     []string
	UploadErr   error
}

// NewMockObjectRepository creates a new MockObjectRepository
func NewMockObjectRepository() *MockObjectRepository {
	return &MockObjectRepository{
		Objects:     make(map[string][]byte),
		ContentType: make(map[string]string),
		Modified:    make(map[string]time.Time),
	}
}

// Upload stores the object under objectPath
func (m *MockObjectRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.Objects[objectPath] = buf
	m.ContentType[objectPath] = contentType
	m.Modified[objectPath] = time.Now().UTC()
	return objectPath, nil
}

// Download returns a stored object
func (m *MockObjectRepository) Download(ctx context.Context, objectPath string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Objects[objectPath]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return append([]byte(nil), data...), nil
}

// Delete removes a stored object
func (m *MockObjectRepository) Delete(ctx context.Context, objectPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, objectPath)
	m.Deleted = append(m.Deleted, objectPath)
	return nil
}

// List returns every object under prefix sorted by key
func (m *MockObjectRepository) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []storage.ObjectInfo
	for key, data := range m.Objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(data)), LastModified: m.Modified[key]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// GeneratePresignedURL returns a fake URL for an existing object
func (m *MockObjectRepository) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Objects[objectPath]; !ok {
		return "", storage.ErrObjectNotFound
	}
	return fmt.Sprintf("https://objects.test/%s?expires=%d", objectPath, int(expiry.Seconds())), nil
}

// Keys returns every stored key sorted
func (m *MockObjectRepository) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Objects))
	for k := range m.Objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NotificationRecorder collects notifications delivered by the ledger
type NotificationRecorder struct {
	mu            sync.Mutex
	Notifications []domain.Notification
}

// NewNotificationRecorder creates a new NotificationRecorder
func NewNotificationRecorder() *NotificationRecorder {
	return &NotificationRecorder{}
}

// Handle records n; pass it to Subscribe
func (r *NotificationRecorder) Handle(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notifications = append(r.Notifications, n)
}

// All returns a copy of the recorded notifications
func (r *NotificationRecorder) All() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.Notifications...)
}

// Titles returns the recorded titles in delivery order
func (r *NotificationRecorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	titles := make([]string, 0, len(r.Notifications))
	for _, n := range r.Notifications {
		titles = append(titles, n.Title)
	}
	return titles
}

// WithTitle returns recorded notifications with the given title
func (r *NotificationRecorder) WithTitle(title string) []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.Notifications {
		if n.Title == title {
			out = append(out, n)
		}
	}
	return out
}

// Reset forgets everything recorded so far
func (r *NotificationRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notifications = nil
}
