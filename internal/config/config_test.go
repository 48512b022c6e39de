package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "market-api", cfg.ServiceName)
	// the observed allow-list narrowing: preparing/shipped stay out by default
	assert.Equal(t, []string{"received", "ready_for_pickup", "completed", "cancelled"}, cfg.SubOrderSettable)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "b1:9092, b2:9092 ,")
	t.Setenv("SUBORDER_SETTABLE", "received,preparing,shipped,completed,cancelled")

	cfg := Load()
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.KafkaBrokers)
	assert.Contains(t, cfg.SubOrderSettable, "preparing")
	assert.Contains(t, cfg.SubOrderSettable, "shipped")
}
