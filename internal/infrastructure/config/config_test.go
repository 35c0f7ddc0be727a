package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/lore-graph/internal/domain/entities"
	"github.com/ersonp/lore-graph/internal/domain/services"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
	require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte(content), 0644))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "data/lore.yaml", cfg.Input)
	assert.Equal(t, "docs/index.html", cfg.Output.Path)
	assert.Equal(t, "html", cfg.Output.Format)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
}

func TestConfigDir(t *testing.T) {
	result := ConfigDir("/home/user/project")
	assert.Equal(t, "/home/user/project/.loregraph", result)
}

func TestConfigFilePath(t *testing.T) {
	result := ConfigFilePath("/home/user/project")
	assert.Equal(t, "/home/user/project/.loregraph/config.yaml", result)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
input: lore.csv
output:
  format: json
server:
  port: 9000
graph:
  directed: false
  relationships:
    Rivals: {color: "#ABCDEF"}
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "lore.csv", cfg.Input)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "docs/index.html", cfg.Output.Path, "unset keys keep defaults")
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.NotNil(t, cfg.Graph.Directed)
	assert.False(t, *cfg.Graph.Directed)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "server: [not, a, map")

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoad_UnknownKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "misspelled section",
			content: "serer:\n  port: 9000\n",
			errMsg:  "field serer not found",
		},
		{
			name:    "misspelled graph key",
			content: "graph:\n  humanise_labels: false\n",
			errMsg:  "field humanise_labels not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "parsing config file")
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "# nothing configured yet\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_DefaultConfigYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, DefaultConfigYAML)

	_, err := Load(dir)
	require.NoError(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "server:\n  host: 0.0.0.0\n  port: 9000\n")
	t.Setenv("LOREGRAPH_PORT", "7070")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOREGRAPH_HOST=10.0.0.1\nLOREGRAPH_FORMAT=gml\n"), 0644))
	t.Setenv("LOREGRAPH_FORMAT", "json")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1", cfg.Server.Host)
	assert.Equal(t, "json", cfg.Output.Format, "process environment wins over .env")
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("LOREGRAPH_PORT", "eighty")

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing environment")
}

func TestConfig_BuilderConfig_Defaults(t *testing.T) {
	assert.Equal(t, services.DefaultBuilderConfig(), Default().BuilderConfig())
}

func TestConfig_BuilderConfig_Overrides(t *testing.T) {
	undirected := false
	cfg := Default()
	cfg.Graph = GraphConfig{
		Directed:    &undirected,
		ImageShape:  "image",
		DefaultNode: NodeStyleConfig{Size: 10},
		Categories: map[string]NodeStyleConfig{
			"faction": {Color: "#010203"},
		},
		Relationships: map[string]EdgeStyleConfig{
			"Family": {Width: 6},
			"Rivals": {Color: "#ABCDEF"},
		},
		Layout: LayoutConfig{Gravity: -8000, Background: "#000000"},
	}

	bc := cfg.BuilderConfig()

	assert.False(t, bc.Directed)
	assert.True(t, bc.HumanizeLabels)
	assert.Equal(t, "image", bc.ImageShape)
	assert.Equal(t, services.NodeStyle{Color: "#95A5A6", Shape: "dot", Size: 10, ImageSize: 40}, bc.DefaultNode)
	assert.Equal(t, services.NodeStyle{Color: "#010203", Shape: "diamond", Size: 25, ImageSize: 40}, bc.Categories[entities.CategoryFaction])
	assert.Equal(t, services.EdgeStyle{Color: "#00BFFF", Width: 6}, bc.Relationships["Family"])
	assert.Equal(t, services.EdgeStyle{Color: "#ABCDEF"}, bc.Relationships["Rivals"])
	assert.Equal(t, -8000.0, bc.Layout.Gravity)
	assert.Equal(t, 0.5, bc.Layout.CentralGravity)
	assert.Equal(t, "#000000", bc.Layout.Background)
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteDefault(dir))
	assert.True(t, Exists(dir))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default().Input, cfg.Input)
	assert.Equal(t, Default().Server, cfg.Server)

	err = WriteDefault(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestWriteSampleData(t *testing.T) {
	dir := t.TempDir()

	written, err := WriteSampleData(dir, DefaultInput)
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(filepath.Join(dir, DefaultInput))
	require.NoError(t, err)
	assert.Equal(t, SampleDataYAML, string(data))

	written, err = WriteSampleData(dir, DefaultInput)
	require.NoError(t, err)
	assert.False(t, written)
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Server.Port = 4242

	require.NoError(t, Write(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 4242, loaded.Server.Port)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(dir))
	writeConfig(t, dir, "")
	assert.True(t, Exists(dir))
}
