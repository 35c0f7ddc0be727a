// Package config provides configuration loading and management.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ersonp/lore-graph/internal/domain/entities"
	"github.com/ersonp/lore-graph/internal/domain/services"
)

const (
	// DefaultConfigDir is the directory name for loregraph configuration.
	DefaultConfigDir = ".loregraph"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultInput is the record file read when nothing else is configured.
	DefaultInput = "data/lore.yaml"
	// DefaultOutput is the file written by a plain build.
	DefaultOutput = "docs/index.html"
)

// Config holds the build, output, server and style settings.
type Config struct {
	Input  string       `yaml:"input,omitempty" env:"LOREGRAPH_INPUT"`
	Output OutputConfig `yaml:"output,omitempty"`
	Server ServerConfig `yaml:"server,omitempty"`
	Graph  GraphConfig  `yaml:"graph,omitempty"`
}

// OutputConfig says where a build writes and in which format.
type OutputConfig struct {
	Path   string `yaml:"path,omitempty" env:"LOREGRAPH_OUTPUT"`
	Format string `yaml:"format,omitempty" env:"LOREGRAPH_FORMAT"`
}

// ServerConfig holds configuration for the static server.
type ServerConfig struct {
	Host  string `yaml:"host,omitempty" env:"LOREGRAPH_HOST"`
	Port  int    `yaml:"port,omitempty" env:"LOREGRAPH_PORT"`
	Watch bool   `yaml:"watch,omitempty" env:"LOREGRAPH_WATCH"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GraphConfig overrides the builder's stock palette. Zero values keep
// the stock setting.
type GraphConfig struct {
	Title          string                     `yaml:"title,omitempty"`
	Directed       *bool                      `yaml:"directed,omitempty"`
	HumanizeLabels *bool                      `yaml:"humanize_labels,omitempty"`
	ImageShape     string                     `yaml:"image_shape,omitempty"`
	DefaultNode    NodeStyleConfig            `yaml:"default_node,omitempty"`
	Categories     map[string]NodeStyleConfig `yaml:"categories,omitempty"`
	DefaultEdge    EdgeStyleConfig            `yaml:"default_edge,omitempty"`
	Relationships  map[string]EdgeStyleConfig `yaml:"relationships,omitempty"`
	Layout         LayoutConfig               `yaml:"layout,omitempty"`
}

// NodeStyleConfig is the configured look of a node category.
type NodeStyleConfig struct {
	Color     string `yaml:"color,omitempty"`
	Shape     string `yaml:"shape,omitempty"`
	Size      int    `yaml:"size,omitempty"`
	ImageSize int    `yaml:"image_size,omitempty"`
}

// EdgeStyleConfig is the configured look of a relationship type.
type EdgeStyleConfig struct {
	Color string `yaml:"color,omitempty"`
	Width int    `yaml:"width,omitempty"`
}

// LayoutConfig holds the physics hints handed to the front end.
type LayoutConfig struct {
	Solver         string  `yaml:"solver,omitempty"`
	Gravity        float64 `yaml:"gravity,omitempty"`
	CentralGravity float64 `yaml:"central_gravity,omitempty"`
	SpringLength   float64 `yaml:"spring_length,omitempty"`
	SpringStrength float64 `yaml:"spring_strength,omitempty"`
	Damping        float64 `yaml:"damping,omitempty"`
	Background     string  `yaml:"background,omitempty"`
	FontColor      string  `yaml:"font_color,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Input: DefaultInput,
		Output: OutputConfig{
			Path:   DefaultOutput,
			Format: "html",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
	}
}

// Load loads configuration from the .loregraph directory in the given
// path. A missing file means defaults. Values from a .env file in
// basePath and then the process environment are applied last.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	// Start with defaults
	cfg := Default()

	data, err := os.ReadFile(configFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(basePath); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. Real
// environment variables win over the .env file.
func (c *Config) applyEnvOverrides(basePath string) error {
	vars, err := godotenv.Read(filepath.Join(basePath, ".env"))
	if errors.Is(err, fs.ErrNotExist) {
		vars = make(map[string]string)
	} else if err != nil {
		return fmt.Errorf("reading .env file: %w", err)
	}

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	if err := env.ParseWithOptions(c, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

// BuilderConfig merges the graph settings over the stock palette.
func (c *Config) BuilderConfig() services.BuilderConfig {
	bc := services.DefaultBuilderConfig()
	g := c.Graph

	if g.Directed != nil {
		bc.Directed = *g.Directed
	}
	if g.HumanizeLabels != nil {
		bc.HumanizeLabels = *g.HumanizeLabels
	}
	if g.ImageShape != "" {
		bc.ImageShape = g.ImageShape
	}

	bc.DefaultNode = g.DefaultNode.merge(bc.DefaultNode)
	for name, style := range g.Categories {
		cat := entities.Category(name)
		bc.Categories[cat] = style.merge(bc.Categories[cat])
	}

	bc.DefaultEdge = g.DefaultEdge.merge(bc.DefaultEdge)
	for relType, style := range g.Relationships {
		bc.Relationships[relType] = style.merge(bc.Relationships[relType])
	}

	l := g.Layout
	bc.Layout.Solver = pick(l.Solver, bc.Layout.Solver)
	bc.Layout.Gravity = pick(l.Gravity, bc.Layout.Gravity)
	bc.Layout.CentralGravity = pick(l.CentralGravity, bc.Layout.CentralGravity)
	bc.Layout.SpringLength = pick(l.SpringLength, bc.Layout.SpringLength)
	bc.Layout.SpringStrength = pick(l.SpringStrength, bc.Layout.SpringStrength)
	bc.Layout.Damping = pick(l.Damping, bc.Layout.Damping)
	bc.Layout.Background = pick(l.Background, bc.Layout.Background)
	bc.Layout.FontColor = pick(l.FontColor, bc.Layout.FontColor)

	return bc
}

func (n NodeStyleConfig) merge(base services.NodeStyle) services.NodeStyle {
	return services.NodeStyle{
		Color:     pick(n.Color, base.Color),
		Shape:     pick(n.Shape, base.Shape),
		Size:      pick(n.Size, base.Size),
		ImageSize: pick(n.ImageSize, base.ImageSize),
	}
}

func (e EdgeStyleConfig) merge(base services.EdgeStyle) services.EdgeStyle {
	return services.EdgeStyle{
		Color: pick(e.Color, base.Color),
		Width: pick(e.Width, base.Width),
	}
}

// pick returns v unless it is the zero value.
func pick[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

// ConfigDir returns the path to the .loregraph config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// Exists checks if a loregraph config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
