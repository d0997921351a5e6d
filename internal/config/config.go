// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Mode bounds for Scene.StartMode.
const (
	MinMode = 1
	MaxMode = 7
)

// ErrInvalid is wrapped by Validate for every rejected setting.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Camera      CameraConfig      `yaml:"camera"`
	Scene       SceneConfig       `yaml:"scene"`
	Screenshots ScreenshotsConfig `yaml:"screenshots"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// GraphicsConfig holds display and projection settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	FOV        float32    `yaml:"fov"` // degrees, used by the keyframe camera
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	ClearColor [3]float32 `yaml:"clear_color"`
}

// CameraConfig holds free camera settings.
type CameraConfig struct {
	Speed       float32    `yaml:"speed"`       // units per second
	Sensitivity float32    `yaml:"sensitivity"` // degrees per pixel
	Zoom        float32    `yaml:"zoom"`        // initial field of view in degrees
	Position    [3]float32 `yaml:"position"`
}

// MeshFiles holds optional triangle-list files. Empty paths use the built-in solids.
type MeshFiles struct {
	Tetrahedron  string `yaml:"tetrahedron"`
	Octahedron   string `yaml:"octahedron"`
	Icosahedron  string `yaml:"icosahedron"`
	Dodecahedron string `yaml:"dodecahedron"`
}

// SceneConfig holds scene construction settings.
type SceneConfig struct {
	StartMode             int        `yaml:"start_mode"`
	Meshes                MeshFiles  `yaml:"meshes"`
	EllipsoidScale        [3]float32 `yaml:"ellipsoid_scale"`
	SphereSubdivisions    int        `yaml:"sphere_subdivisions"`
	EllipsoidSubdivisions int        `yaml:"ellipsoid_subdivisions"`
	LightColor            [3]float32 `yaml:"light_color"`
	LightPosition         [3]float32 `yaml:"light_position"`
}

// ScreenshotsConfig holds screenshot output settings.
type ScreenshotsConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1000,
			Height:     1000,
			Fullscreen: false,
			VSync:      true,
			FOV:        45,
			Near:       0.01,
			Far:        100,
			ClearColor: [3]float32{0.2, 0.3, 0.3},
		},
		Camera: CameraConfig{
			Speed:       2.5,
			Sensitivity: 0.1,
			Zoom:        45,
			Position:    [3]float32{0, 0, 10},
		},
		Scene: SceneConfig{
			StartMode:             1,
			EllipsoidScale:        [3]float32{2, 1, 1},
			SphereSubdivisions:    3,
			EllipsoidSubdivisions: 3,
			LightColor:            [3]float32{1, 1, 1},
			LightPosition:         [3]float32{-10, 4, 7},
		},
		Screenshots: ScreenshotsConfig{
			Dir:    "screenshots",
			Prefix: "polyview",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting the viewer cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Graphics.Width <= 0 || c.Graphics.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	case c.Graphics.Near <= 0 || c.Graphics.Far <= c.Graphics.Near:
		return fmt.Errorf("%w: clip planes near=%g far=%g", ErrInvalid, c.Graphics.Near, c.Graphics.Far)
	case c.Graphics.FOV <= 0 || c.Graphics.FOV >= 180:
		return fmt.Errorf("%w: fov %g", ErrInvalid, c.Graphics.FOV)
	case c.Scene.StartMode < MinMode || c.Scene.StartMode > MaxMode:
		return fmt.Errorf("%w: start mode %d not in %d..%d", ErrInvalid, c.Scene.StartMode, MinMode, MaxMode)
	case c.Scene.SphereSubdivisions < 0 || c.Scene.EllipsoidSubdivisions < 0:
		return fmt.Errorf("%w: negative subdivision level", ErrInvalid)
	}
	for i, s := range c.Scene.EllipsoidScale {
		if s <= 0 {
			return fmt.Errorf("%w: ellipsoid scale[%d] = %g", ErrInvalid, i, s)
		}
	}
	return nil
}
