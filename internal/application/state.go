package application

import (
	"sync"

	"voice-lights/internal/domain"
)

// StateCache is the last known state of every light. It is written by the
// status poller and by handled commands.
type StateCache struct {
	mu     sync.RWMutex
	lights domain.LightStatus
	info   domain.RelayInfo
}

func NewStateCache() *StateCache {
	lights := make(domain.LightStatus, domain.MaxLight)
	for _, id := range domain.AllLights() {
		lights[id] = false
	}
	return &StateCache{lights: lights}
}

// Snapshot returns a copy safe to hand out.
func (c *StateCache) Snapshot() domain.LightStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(domain.LightStatus, len(c.lights))
	for id, on := range c.lights {
		out[id] = on
	}
	return out
}

func (c *StateCache) Info() domain.RelayInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.info
}

func (c *StateCache) Apply(commands []domain.LightCommand) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, cmd := range commands {
		if domain.ValidLight(cmd.Light) {
			c.lights[cmd.Light] = cmd.State
		}
	}
}

// Replace overwrites the cache with a relay status report. Lights missing
// from the report are considered off.
func (c *StateCache) Replace(status *domain.RelayStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range domain.AllLights() {
		c.lights[id] = status.Lights[id]
	}
	c.info = status.Info
}
