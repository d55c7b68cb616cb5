package sse

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Conn tracks one active SSE connection.
type Conn struct {
	// ID uniquely identifies the connection.
	ID string

	// RemoteAddr is the client address the connection was accepted from.
	RemoteAddr string

	// StartedAt is when the connection was established.
	StartedAt time.Time

	eventsSent atomic.Int64
	cancel     context.CancelFunc
}

// NewConn creates a connection record. The cancel function is invoked when
// the manager closes the connection.
func NewConn(remoteAddr string, cancel context.CancelFunc) *Conn {
	return &Conn{
		ID:         uuid.New().String(),
		RemoteAddr: remoteAddr,
		StartedAt:  time.Now(),
		cancel:     cancel,
	}
}

// RecordEvent notes that an event was written to the connection.
func (c *Conn) RecordEvent() {
	c.eventsSent.Add(1)
}

// EventsSent returns the number of events written so far.
func (c *Conn) EventsSent() int64 {
	return c.eventsSent.Load()
}

// ConnInfo is a point-in-time view of a connection for API responses.
type ConnInfo struct {
	ID         string    `json:"id"`
	RemoteAddr string    `json:"remoteAddr"`
	StartedAt  time.Time `json:"startedAt"`
	EventsSent int64     `json:"eventsSent"`
}

// Manager tracks active SSE connections.
type Manager struct {
	mu       sync.RWMutex
	conns    map[string]*Conn
	maxConns int
	total    int64
}

// NewManager creates a connection manager. maxConns of zero means unlimited.
func NewManager(maxConns int) *Manager {
	return &Manager{
		conns:    make(map[string]*Conn),
		maxConns: maxConns,
	}
}

// Register adds a connection to the manager.
func (m *Manager) Register(c *Conn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxConns > 0 && len(m.conns) >= m.maxConns {
		return ErrMaxConnectionsReached
	}

	m.conns[c.ID] = c
	m.total++
	return nil
}

// Deregister removes a connection from the manager and cancels its context.
func (m *Manager) Deregister(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.conns[id]; ok {
		if c.cancel != nil {
			c.cancel()
		}
		delete(m.conns, id)
	}
}

// Count returns the number of active connections.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// Total returns the number of connections accepted over the manager's lifetime.
func (m *Manager) Total() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}

// CloseAll cancels every active connection.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.conns {
		if c.cancel != nil {
			c.cancel()
		}
	}
	m.conns = make(map[string]*Conn)
}

// Info returns connection info for API responses.
func (m *Manager) Info() []ConnInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info := make([]ConnInfo, 0, len(m.conns))
	for _, c := range m.conns {
		info = append(info, ConnInfo{
			ID:         c.ID,
			RemoteAddr: c.RemoteAddr,
			StartedAt:  c.StartedAt,
			EventsSent: c.EventsSent(),
		})
	}
	return info
}
