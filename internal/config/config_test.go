package config_test

import (
	"testing"

	"github.com/ltnguyen02/tiny-range-index-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	c := &config.ConfigImpl{}
	cfg, err := c.LoadConfig("../../samples/config.json")
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3, 4}, cfg.Weights)
	require.Len(t, cfg.Updates, 3)
	assert.Equal(t, 1, cfg.Updates[0].Pos)
	assert.Equal(t, int64(5), cfg.Updates[0].Value)
	assert.Equal(t, uint64(1000000007), cfg.Modulus)
}

func TestLoadYAML(t *testing.T) {
	c := &config.ConfigImpl{}
	cfg, err := c.LoadYAML("../../samples/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "./tmp", cfg.WorkingDir)
	assert.Equal(t, []int64{1, 2, 3, 4}, cfg.Run.Weights)
	require.Len(t, cfg.Run.Updates, 3)
	assert.Equal(t, int64(6), cfg.Run.Updates[2].Value)
	assert.Equal(t, 10485760, cfg.Journal.MaxFileSize)
	assert.Equal(t, 10, cfg.Journal.FlushAfterNSteps)
	assert.Equal(t, "jsonl", cfg.Journal.Formatter)
	assert.Equal(t, "file", cfg.Journal.Storage)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	c := &config.ConfigImpl{}
	_, err := c.LoadConfig("no-such-file.json")
	assert.Error(t, err)
}
