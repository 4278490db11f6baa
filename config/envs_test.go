package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerDefaults(t *testing.T) {
	t.Setenv("MAZE_PATH", "mazes/a.png")
	for _, k := range []string{"REST_PORT", "FRIENDLY_MODE", "IDLE_TIMEOUT_SECONDS", "MAX_REDIRECTS", "DISGUISE_RADIUS", "DB_NAME"} {
		t.Setenv(k, "")
	}

	c := Server()
	assert.Equal(t, "mazes/a.png", c.MazePath)
	assert.Equal(t, 8080, c.RESTPort)
	assert.False(t, c.FriendlyMode)
	assert.Equal(t, 300, c.IdleTimeoutSeconds)
	assert.Equal(t, 4, c.MaxRedirects)
	assert.Equal(t, 2, c.DisguiseRadius)
	assert.Equal(t, "trapmaze", c.DBName)
}

func TestServerOverrides(t *testing.T) {
	t.Setenv("MAZE_PATH", "m.bmp")
	t.Setenv("REST_PORT", "9000")
	t.Setenv("FRIENDLY_MODE", "true")
	t.Setenv("IDLE_TIMEOUT_SECONDS", "5")
	t.Setenv("DB_NAME", "runs")

	c := Server()
	assert.Equal(t, 9000, c.RESTPort)
	assert.True(t, c.FriendlyMode)
	assert.Equal(t, 5, c.IdleTimeoutSeconds)
	assert.Equal(t, "runs", c.DBName)
}

func TestAgentDefaults(t *testing.T) {
	t.Setenv("AGENT_MAP_SIZE", "")
	t.Setenv("AGENT_LOOKAHEAD", "128")

	c := Agent()
	assert.Equal(t, 512, c.MapSize)
	assert.Equal(t, 128, c.Lookahead)
}
