package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"], "serve should be registered")
	assert.True(t, names["init-storage"], "init-storage should be registered")
}

func TestRootShowsHelp(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Usage:")
	assert.Contains(t, buf.String(), "serve")
}

func TestLoadConfigDebugLevel(t *testing.T) {
	t.Setenv("TALIO_STORAGE", "memory")
	t.Setenv("DEBUG", "true")

	_, logger, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", logger.GetLevel().String())
}

func TestOpenStoreMemory(t *testing.T) {
	t.Setenv("TALIO_STORAGE", "memory")
	cfg, logger, err := loadConfig()
	require.NoError(t, err)

	store, err := openStore(cfg, logger)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestLoadConfigRejectsUnknownStorage(t *testing.T) {
	t.Setenv("TALIO_STORAGE", "floppy")
	_, _, err := loadConfig()
	assert.Error(t, err)
}
