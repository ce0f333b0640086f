package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Key es la clave bajo la que se persiste el identificador de sesión del cliente.
const Key = "chatSessionId"

// Store abstrae el almacenamiento clave-valor local del cliente.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// NewID genera un identificador con forma session_<millis>_<sufijo aleatorio>.
func NewID(now time.Time) string {
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), randomSuffix())
}

// EnsureID devuelve el identificador guardado o crea y persiste uno nuevo.
func EnsureID(ctx context.Context, store Store, now func() time.Time) (string, error) {
	if now == nil {
		now = time.Now
	}
	id, ok, err := store.Get(ctx, Key)
	if err != nil {
		return "", fmt.Errorf("read session id: %w", err)
	}
	if ok && strings.TrimSpace(id) != "" {
		return id, nil
	}

	id = NewID(now())
	if err := store.Set(ctx, Key, id); err != nil {
		return "", fmt.Errorf("persist session id: %w", err)
	}
	return id, nil
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// MemoryStore guarda valores en memoria; útil para tests y modo efímero.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
