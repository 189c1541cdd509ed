package call

import (
	"log/slog"
	"sync"
	"time"
)

// Caller — непрозрачная возможность «звонок в канале комнаты».
// Канал = id комнаты; что происходит внутри звонка, сервис не знает.
type Caller interface {
	StartCall(roomID string) error
	EndCall(roomID string) error
}

// Manager — учёт активных каналов. Реальная медиа живёт на клиенте,
// серверу достаточно знать, где звонок идёт.
type Manager struct {
	mu     sync.Mutex
	active map[string]time.Time
}

func NewManager() *Manager {
	return &Manager{active: make(map[string]time.Time)}
}

func (m *Manager) StartCall(roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.active[roomID]; !ok {
		m.active[roomID] = time.Now()
		slog.Info("call started", "channel", roomID)
	}
	return nil
}

func (m *Manager) EndCall(roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if started, ok := m.active[roomID]; ok {
		delete(m.active, roomID)
		slog.Info("call ended", "channel", roomID, "duration", time.Since(started))
	}
	return nil
}

// Active — идёт ли звонок в канале комнаты.
func (m *Manager) Active(roomID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[roomID]
	return ok
}
