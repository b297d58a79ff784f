package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "CHUNKVIEW_CONFIG"

// File is the on-disk configuration.
type File struct {
	Render  RenderConfig  `yaml:"render"`
	Meshing MeshingConfig `yaml:"meshing"`
	Window  WindowConfig  `yaml:"window"`
	World   WorldConfig   `yaml:"world"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type RenderConfig struct {
	Distance      int     `yaml:"distance"`
	FOV           float32 `yaml:"fov"`
	SortThreshold float32 `yaml:"sort_threshold"`
	TextureDir    string  `yaml:"texture_dir"`
}

type MeshingConfig struct {
	Workers      int `yaml:"workers"`
	ResultBuffer int `yaml:"result_buffer"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
	MaxFPS int    `yaml:"max_fps"` // 0 means uncapped
}

type WorldConfig struct {
	Seed       int64  `yaml:"seed"`
	Generator  string `yaml:"generator"` // "perlin" or "flat"
	FlatHeight int    `yaml:"flat_height"`
}

type MetricsConfig struct {
	Address string `yaml:"address"` // empty disables the endpoint
}

// Default returns the configuration written when no file exists.
func Default() File {
	return File{
		Render: RenderConfig{
			Distance:      GetRenderDistance(),
			FOV:           GetFOV(),
			SortThreshold: GetSortThreshold(),
			TextureDir:    "assets/textures",
		},
		Meshing: MeshingConfig{
			Workers:      GetMeshWorkers(),
			ResultBuffer: GetResultBuffer(),
		},
		Window: WindowConfig{Width: 1280, Height: 720, Title: "chunkview", VSync: true},
		World:  WorldConfig{Seed: 1337, Generator: "perlin", FlatHeight: 8},
		Metrics: MetricsConfig{
			Address: "127.0.0.1:2112",
		},
	}
}

// Load reads a YAML config file. Fields missing from the file keep their
// defaults.
func Load(path string) (File, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrCreate loads path, or writes the defaults there when it does not
// exist yet. An empty path falls back to $CHUNKVIEW_CONFIG, then
// "config.yaml".
func LoadOrCreate(path string) (File, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}

	cfg = Default()
	if err := Save(path, cfg); err != nil {
		return cfg, err
	}
	log.Printf("Wrote default config to %s", path)
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg File) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Apply pushes the render and meshing sections into the process-wide
// settings, clamping as the setters do.
func (f File) Apply() {
	SetRenderDistance(f.Render.Distance)
	SetFOV(f.Render.FOV)
	SetSortThreshold(f.Render.SortThreshold)
	SetMeshWorkers(f.Meshing.Workers)
	SetResultBuffer(f.Meshing.ResultBuffer)
}
