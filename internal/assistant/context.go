package assistant

import (
	"sync"
	"time"
)

// Context holds session-scoped facts about the user, injected into
// model prompts. It lives for the process lifetime.
type Context struct {
	mu         sync.RWMutex
	userName   string
	location   string
	interests  []string
	lastActive time.Time
}

func NewContext(userName, location string, interests []string) *Context {
	return &Context{
		userName:   userName,
		location:   location,
		interests:  append([]string(nil), interests...),
		lastActive: time.Now(),
	}
}

// ContextSnapshot is a point-in-time copy of the session facts.
type ContextSnapshot struct {
	UserName   string
	Location   string
	Interests  []string
	LastActive time.Time
}

func (c *Context) Snapshot() ContextSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ContextSnapshot{
		UserName:   c.userName,
		Location:   c.location,
		Interests:  append([]string(nil), c.interests...),
		LastActive: c.lastActive,
	}
}

func (c *Context) UserName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userName
}

func (c *Context) Location() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.location
}

func (c *Context) SetUserName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userName = name
	c.lastActive = time.Now()
}

func (c *Context) SetLocation(location string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.location = location
	c.lastActive = time.Now()
}

func (c *Context) Touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActive = time.Now()
}
