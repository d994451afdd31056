package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileName)

	cfg := Config{
		TopDirs:    []string{dir},
		Extensions: []string{"mp3", "flac"},
	}
	require.NoError(t, saveConfig(path, cfg))

	loaded := loadConfig(path)
	require.Equal(t, []string{dir}, loaded.TopDirs)
	require.Equal(t, []string{"mp3", "flac"}, loaded.Extensions)
}

func TestConfigDropsVanishedTopDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileName)
	gone := filepath.Join(dir, "gone")
	require.NoError(t, os.Mkdir(gone, 0755))

	require.NoError(t, saveConfig(path, Config{TopDirs: []string{dir, gone}}))
	require.NoError(t, os.Remove(gone))

	loaded := loadConfig(path)
	require.Equal(t, []string{dir}, loaded.TopDirs)
}

func TestConfigMissingFile(t *testing.T) {
	loaded := loadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Empty(t, loaded.TopDirs)
	require.Empty(t, loaded.Extensions)
}

func TestConfigCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	loaded := loadConfig(path)
	require.Empty(t, loaded.TopDirs)
	require.Empty(t, loaded.Extensions)
}
