package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sagebistro/reservation-app/client"
)

func TestLoginAndLogout(t *testing.T) {
	tokens := client.NewMemoryTokenStore("")
	m := NewManager(tokens, time.Minute)

	m.Login("header.payload.signature", "admin@example.com")
	assert.True(t, m.Active())
	assert.Equal(t, "admin@example.com", m.Email())
	assert.Equal(t, "header.payload.signature", tokens.Token())

	m.Logout()
	assert.False(t, m.Active())
	assert.False(t, m.Expired())
	assert.Empty(t, tokens.Token())
	assert.Empty(t, m.Email())
}

func TestIdleTimeoutClearsCredentials(t *testing.T) {
	tokens := client.NewMemoryTokenStore("")
	m := NewManager(tokens, 40*time.Millisecond)

	expired := make(chan struct{})
	m.OnExpire = func() { close(expired) }

	m.Login("header.payload.signature", "admin@example.com")

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("session never expired")
	}

	assert.False(t, m.Active())
	assert.True(t, m.Expired())
	assert.Empty(t, tokens.Token())
}

func TestTouchExtendsSession(t *testing.T) {
	tokens := client.NewMemoryTokenStore("")
	m := NewManager(tokens, 120*time.Millisecond)

	m.Login("header.payload.signature", "admin@example.com")

	// Keep touching past the original deadline.
	for i := 0; i < 4; i++ {
		time.Sleep(60 * time.Millisecond)
		m.Touch()
	}
	assert.True(t, m.Active())

	// Stop touching; now it expires.
	time.Sleep(300 * time.Millisecond)
	assert.False(t, m.Active())
	assert.True(t, m.Expired())
}

func TestStaleExpiryAfterTouchIsIgnored(t *testing.T) {
	tokens := client.NewMemoryTokenStore("")
	m := NewManager(tokens, time.Minute)
	m.Login("header.payload.signature", "admin@example.com")

	m.mu.Lock()
	staleGen := m.timerGen
	m.mu.Unlock()

	// Touch retimes the clock; the old timer's callback may already have
	// fired and be waiting on the lock. Its generation is now stale.
	m.Touch()
	m.expire(staleGen)
	assert.True(t, m.Active())
	assert.False(t, m.Expired())

	// The current generation still expires the session.
	m.mu.Lock()
	currentGen := m.timerGen
	m.mu.Unlock()
	m.expire(currentGen)
	assert.False(t, m.Active())
	assert.True(t, m.Expired())
}

func TestLifecycleHooks(t *testing.T) {
	tokens := client.NewMemoryTokenStore("")
	m := NewManager(tokens, time.Minute)

	var events []string
	m.OnLogin = func() { events = append(events, "login") }
	m.OnLogout = func() { events = append(events, "logout") }

	m.Login("header.payload.signature", "admin@example.com")
	m.Logout()
	assert.Equal(t, []string{"login", "logout"}, events)
}

func TestFreshLoginClearsExpiredFlag(t *testing.T) {
	tokens := client.NewMemoryTokenStore("")
	m := NewManager(tokens, 30*time.Millisecond)

	m.Login("header.payload.signature", "admin@example.com")
	time.Sleep(150 * time.Millisecond)
	assert.True(t, m.Expired())

	m.Login("header.payload.signature", "admin@example.com")
	assert.True(t, m.Active())
	assert.False(t, m.Expired())
}
