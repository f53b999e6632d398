package mapbridge

import (
	"log/slog"
	"sync"
)

// Manager keeps one Bridge per device and feeds it the raw messages coming
// off the websocket.
type Manager struct {
	sender Sender

	mu      sync.Mutex
	bridges map[string]*Bridge
}

func NewManager(sender Sender) *Manager {
	return &Manager{sender: sender, bridges: map[string]*Bridge{}}
}

func (m *Manager) Bridge(deviceID string) *Bridge {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bridges[deviceID]
	if !ok {
		b = NewBridge(deviceID, m.sender)
		m.bridges[deviceID] = b
	}
	return b
}

func (m *Manager) HandleMessage(deviceID string, payload []byte) {
	ev, err := ParseEvent(payload)
	if err != nil {
		slog.Warn("dropping map message", "device_id", deviceID, "err", err)
		return
	}
	m.Bridge(deviceID).HandleEvent(ev)
}

// Disconnected marks the device's map as not ready. A bridge with nothing to
// replay is dropped.
func (m *Manager) Disconnected(deviceID string) {
	m.mu.Lock()
	b, ok := m.bridges[deviceID]
	if ok {
		if _, has := b.Latest(); !has {
			delete(m.bridges, deviceID)
		}
	}
	m.mu.Unlock()
	if ok {
		b.Reset()
	}
}

// Remove drops the device's bridge and its replay state.
func (m *Manager) Remove(deviceID string) {
	m.mu.Lock()
	delete(m.bridges, deviceID)
	m.mu.Unlock()
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bridges)
}
