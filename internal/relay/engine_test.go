package relay

import (
	"bufio"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trollwire/internal/config"
)

func TestSpawn_EchoEngine(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs cat")
	}

	// cat behaves like a logic engine that echoes every line.
	p, err := Spawn(config.EngineConfig{Command: "cat"}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, p.Send("alice:listGames"))
	require.NoError(t, p.Send("bob:ready"))

	scanner := bufio.NewScanner(p.Stdout())
	require.True(t, scanner.Scan())
	assert.Equal(t, "alice:listGames", scanner.Text())
	require.True(t, scanner.Scan())
	assert.Equal(t, "bob:ready", scanner.Text())

	p.Stop()

	// Closed stdin means EOF on the echo engine's output.
	assert.False(t, scanner.Scan())
}

func TestSpawn_MissingCommand(t *testing.T) {
	_, err := Spawn(config.EngineConfig{Command: "definitely-not-a-real-binary"}, zap.NewNop())
	assert.Error(t, err)
}
