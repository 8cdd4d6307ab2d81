package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	fail     bool
	closed   bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func TestNotifyUserReachesOnlyThatUser(t *testing.T) {
	hub := NewHub()
	a1, a2, b := &fakeConn{}, &fakeConn{}, &fakeConn{}
	hub.Add(1, a1)
	hub.Add(1, a2)
	hub.Add(2, b)

	hub.NotifyUser(1, "level_up", map[string]int{"new_level": 2})

	require.Len(t, a1.messages, 1)
	require.Len(t, a2.messages, 1)
	assert.Empty(t, b.messages)

	var msg struct {
		Type string         `json:"type"`
		Data map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(a1.messages[0], &msg))
	assert.Equal(t, "level_up", msg.Type)
	assert.Equal(t, 2, msg.Data["new_level"])
}

func TestNotifyUserDropsBrokenConnections(t *testing.T) {
	hub := NewHub()
	good, bad := &fakeConn{}, &fakeConn{fail: true}
	hub.Add(7, good)
	hub.Add(7, bad)

	hub.NotifyUser(7, "xp_gained", nil)

	assert.True(t, bad.closed)
	assert.False(t, good.closed)
	assert.Equal(t, 1, hub.Connections(7))
}

func TestRemoveLastConnection(t *testing.T) {
	hub := NewHub()
	c := &fakeConn{}
	hub.Add(3, c)
	hub.Remove(3, c)
	hub.Remove(3, c)

	assert.True(t, c.closed)
	assert.Equal(t, 0, hub.Connections(3))
	hub.NotifyUser(3, "xp_gained", nil)
	assert.Empty(t, c.messages)
}
