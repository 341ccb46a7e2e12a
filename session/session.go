// Package session tracks the admin's logged-in state: who is signed in, the
// bearer token upstream calls ride on, and an inactivity timeout that signs
// them out after a quiet period.
package session

import (
	"sync"
	"time"

	"github.com/sagebistro/reservation-app/client"
	"github.com/sagebistro/reservation-app/utils"
)

// DefaultIdleTimeout signs an admin out after 15 minutes without activity.
const DefaultIdleTimeout = 15 * time.Minute

type Manager struct {
	tokens *client.MemoryTokenStore
	idle   time.Duration

	mu      sync.Mutex
	email   string
	active  bool
	expired bool
	timer   *time.Timer

	// timerGen invalidates a timer callback that fired just as the timer was
	// being reset: Stop cannot retract a callback already waiting on mu.
	timerGen uint64

	// OnLogin fires after a successful sign-in, OnLogout after an explicit
	// sign-out, OnExpire once when the idle timeout elapses. All fire after
	// credentials have been updated.
	OnLogin  func()
	OnLogout func()
	OnExpire func()
}

// NewManager wires the session to the token store the upstream client reads
// from, so expiry immediately stops authorized calls.
func NewManager(tokens *client.MemoryTokenStore, idle time.Duration) *Manager {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Manager{tokens: tokens, idle: idle}
}

// Login stores the credentials and starts the inactivity clock.
func (m *Manager) Login(token, email string) {
	m.mu.Lock()
	m.tokens.Set(token)
	m.email = email
	m.active = true
	m.expired = false
	m.resetTimerLocked()
	onLogin := m.OnLogin
	m.mu.Unlock()

	utils.InfoLogger.Printf("admin session started for %s", email)
	if onLogin != nil {
		onLogin()
	}
}

// Touch resets the inactivity clock. Call it on every authorized request.
func (m *Manager) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return
	}
	m.resetTimerLocked()
}

// Logout clears credentials immediately.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.clearLocked()
	onLogout := m.OnLogout
	m.mu.Unlock()

	if onLogout != nil {
		onLogout()
	}
}

// Active reports whether an admin is currently signed in.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Expired reports whether the last session ended by timing out rather than an
// explicit logout.
func (m *Manager) Expired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expired
}

func (m *Manager) Email() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.email
}

func (m *Manager) resetTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timerGen++
	gen := m.timerGen
	m.timer = time.AfterFunc(m.idle, func() { m.expire(gen) })
}

func (m *Manager) expire(gen uint64) {
	m.mu.Lock()
	if !m.active || gen != m.timerGen {
		// Retimed or cleared while this callback waited on the lock.
		m.mu.Unlock()
		return
	}
	m.clearLocked()
	m.expired = true
	onExpire := m.OnExpire
	m.mu.Unlock()

	utils.InfoLogger.Printf("admin session expired after %s of inactivity", m.idle)
	if onExpire != nil {
		onExpire()
	}
}

func (m *Manager) clearLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.tokens.Clear()
	m.email = ""
	m.active = false
	m.expired = false
}
