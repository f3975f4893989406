package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 50, cfg.EscalationThreshold)
	assert.Equal(t, 5, cfg.HistoryLimit)
	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, "log", cfg.NotifyTransport)
	assert.Equal(t, 10*time.Minute, cfg.DedupeTTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ESCALATION_THRESHOLD", "70")
	t.Setenv("NOTIFY_TIMEOUT", "3s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 70, cfg.EscalationThreshold)
	assert.Equal(t, 3*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers())
}
