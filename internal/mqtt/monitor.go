package mqtt

import (
	"sort"
	"sync"
	"time"

	"github.com/AaronLay10/PuzzleMaster/internal/events"
)

const defaultHeartbeat = 5 * time.Second

// PropState tracks a room prop's liveness.
type PropState struct {
	PropID    string
	LastSeen  time.Time
	Interval  time.Duration
	Connected bool
}

// Monitor tracks prop heartbeats and journals connects and timeouts.
type Monitor struct {
	mu        sync.RWMutex
	props     map[string]*PropState
	tolerance float64 // multiplier for heartbeat interval (e.g., 2.0 = 2x heartbeat)
	now       func() time.Time
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewMonitor creates a prop monitor. tolerance is the multiplier for the
// heartbeat interval before a prop is considered disconnected.
func NewMonitor(tolerance float64) *Monitor {
	if tolerance <= 1.0 {
		tolerance = 2.0
	}
	return &Monitor{
		props:     make(map[string]*PropState),
		tolerance: tolerance,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Seen records a heartbeat from propID. A zero interval uses the default.
func (m *Monitor) Seen(propID string, interval time.Duration) {
	if interval <= 0 {
		interval = defaultHeartbeat
	}

	m.mu.Lock()
	st, known := m.props[propID]
	reconnect := known && !st.Connected
	if !known {
		st = &PropState{PropID: propID}
		m.props[propID] = st
	}
	st.LastSeen = m.now()
	st.Interval = interval
	wasConnected := st.Connected
	st.Connected = true
	m.mu.Unlock()

	if !wasConnected {
		events.Emit("info", "device.connected", "", map[string]interface{}{
			"prop_id":   propID,
			"reconnect": reconnect,
		})
	}
}

// Start begins the background health check loop.
func (m *Monitor) Start(checkInterval time.Duration) {
	m.wg.Add(1)
	go m.healthCheckLoop(checkInterval)
}

// Stop stops the background health check loop.
func (m *Monitor) Stop() {
	close(m.stopCh)
	m.wg.Wait()
}

func (m *Monitor) healthCheckLoop(interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.checkHealth()
		}
	}
}

func (m *Monitor) checkHealth() {
	type lost struct {
		id       string
		lastSeen time.Time
		timeout  time.Duration
	}
	var gone []lost

	m.mu.Lock()
	now := m.now()
	for id, st := range m.props {
		if !st.Connected {
			continue
		}
		timeout := time.Duration(float64(st.Interval) * m.tolerance)
		if now.Sub(st.LastSeen) > timeout {
			st.Connected = false
			gone = append(gone, lost{id, st.LastSeen, timeout})
		}
	}
	m.mu.Unlock()

	for _, g := range gone {
		events.Emit("warn", "device.disconnected", "heartbeat timeout", map[string]interface{}{
			"prop_id":     g.id,
			"last_seen":   g.lastSeen.Format(time.RFC3339),
			"timeout_sec": g.timeout.Seconds(),
		})
	}
}

// Prop returns a copy of a prop's state.
func (m *Monitor) Prop(propID string) (PropState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.props[propID]; ok {
		return *st, true
	}
	return PropState{}, false
}

// Connected returns the ids of props currently considered alive, sorted.
func (m *Monitor) Connected() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, st := range m.props {
		if st.Connected {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
