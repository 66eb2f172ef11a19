package connections

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/JackVitick/Socialync/internal/providers"
)

type memKey struct {
	user     string
	platform providers.Platform
}

// MemoryStore guarda conexiones en proceso. Para dev y tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[memKey]Connection
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[memKey]Connection), now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, userID string, platform providers.Platform, in Input) error {
	if err := validate(userID, platform, in); err != nil {
		return err
	}
	now := m.now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()

	k := memKey{userID, platform}
	created := now
	if prev, ok := m.data[k]; ok {
		created = prev.CreatedAt
	}
	m.data[k] = Connection{
		UserID:       userID,
		Platform:     platform,
		AccessToken:  in.AccessToken,
		RefreshToken: in.RefreshToken,
		ExpiresAt:    copyInt64(in.ExpiresAt),
		ProfileID:    in.ProfileID,
		ProfileName:  in.ProfileName,
		Connected:    true,
		CreatedAt:    created,
		UpdatedAt:    now,
	}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, userID string, platform providers.Platform) (*Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.data[memKey{userID, platform}]
	if !ok {
		return nil, ErrNotFound
	}
	c.ExpiresAt = copyInt64(c.ExpiresAt)
	return &c, nil
}

func (m *MemoryStore) List(_ context.Context, userID string) ([]Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Connection
	for k, c := range m.data {
		if k.user == userID {
			c.ExpiresAt = copyInt64(c.ExpiresAt)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Platform < out[j].Platform })
	return out, nil
}

// Delete es idempotente.
func (m *MemoryStore) Delete(_ context.Context, userID string, platform providers.Platform) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, memKey{userID, platform})
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func copyInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
