// Package config loads and validates the simulation configuration.
//
// Configuration comes from a JSON document overlaid with ATMOGEOM_* environment
// variables, then passes a single validation pass (field tags plus cross-field
// rules) before any construction begins. A Config that survives Load is
// complete and immutable; construction never starts from a partially valid
// value.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/atmoslab/atmogeom/internal/geometry"
	"github.com/atmoslab/atmogeom/internal/units"
)

// Config is the root simulation configuration.
type Config struct {
	// RandomSeed is the base seed; each worker adds its worker number.
	RandomSeed int64 `json:"random_seed" env:"ATMOGEOM_RANDOM_SEED"`
	// NumWorkers is the number of independent simulation processes. Each
	// worker builds its own complete geometry from this same configuration.
	NumWorkers int    `json:"num_workers" env:"ATMOGEOM_NUM_WORKERS" validate:"gte=1"`
	SaveDir    string `json:"save_dir" env:"ATMOGEOM_SAVE_DIR" validate:"required"`

	Constructor ConstructorConfig `json:"constructor" envPrefix:"ATMOGEOM_CONSTRUCTOR_"`
}

// ConstructorConfig describes the geometry to build.
type ConstructorConfig struct {
	// InputGeometry selects where layer bounds come from: "custom" builds
	// them from this configuration, "file" loads a previously exported
	// geometry (the layer count then comes from the file).
	InputGeometry string `json:"input_geometry" env:"INPUT_GEOMETRY" validate:"oneof=custom file"`
	GeometryFile  string `json:"geometry_file" env:"GEOMETRY_FILE"`

	Topology      string  `json:"topology" env:"TOPOLOGY" validate:"oneof=flat curved"`
	EarthRadiusKm float64 `json:"earth_radius_km" env:"EARTH_RADIUS_KM" validate:"gt=0"`
	// SizeKm is the lateral extent: slab side for flat worlds, arc length at
	// the Earth radius for curved ones.
	SizeKm     float64 `json:"size_km" env:"SIZE_KM" validate:"gt=0"`
	HeightKm   float64 `json:"height_km" env:"HEIGHT_KM" validate:"gt=0"`
	LayerCount int     `json:"layer_count" env:"LAYER_COUNT" validate:"gte=1"`

	Composition []geometry.Component `json:"composition"`

	// ExportGeometry writes the built geometry to save_dir/geometry.json once
	// per run.
	ExportGeometry bool `json:"export_geometry" env:"EXPORT_GEOMETRY"`

	DensityProfile DensityProfileConfig `json:"density_profile" envPrefix:"PROFILE_"`
	MagneticField  MagneticFieldConfig  `json:"magnetic_field" envPrefix:"MAGFIELD_"`
	Detectors      DetectorConfig       `json:"detectors" envPrefix:"DETECTORS_"`
}

// DensityProfileConfig points at the day-keyed density/temperature dataset.
type DensityProfileConfig struct {
	File     string `json:"file" env:"FILE"`
	DayIndex int    `json:"day_index" env:"DAY_INDEX" validate:"gte=0"`
}

// MagneticFieldConfig selects the field source.
type MagneticFieldConfig struct {
	Enabled bool   `json:"enabled" env:"ENABLED"`
	Source  string `json:"source" env:"SOURCE" validate:"oneof=file model"`
	// File is the CSV field table for source "file".
	File string `json:"file" env:"FILE"`
	// Latitude/longitude are WGS84 decimal degrees for source "model".
	LatitudeDeg  float64 `json:"latitude_deg" env:"LATITUDE_DEG" validate:"gte=-90,lte=90"`
	LongitudeDeg float64 `json:"longitude_deg" env:"LONGITUDE_DEG" validate:"gte=-180,lte=180"`
	// Date is the model epoch, YYYY-MM-DD.
	Date string `json:"date" env:"DATE"`
}

// Time parses the configured model epoch.
func (c MagneticFieldConfig) Time() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid magnetic field date %q: %w", c.Date, err)
	}
	return t, nil
}

// DecimalYear returns the model epoch as a fractional year.
func (c MagneticFieldConfig) DecimalYear() (float64, error) {
	t, err := c.Time()
	if err != nil {
		return 0, err
	}
	return units.DecimalYear(t), nil
}

// DetectorConfig lists the sensitive volumes to place.
type DetectorConfig struct {
	Enabled     bool      `json:"enabled" env:"ENABLED"`
	AltitudesKm []float64 `json:"altitudes_km" env:"ALTITUDES_KM"`
	Particles   []string  `json:"particles" env:"PARTICLES"`
}

// acceptedParticles are the particle names a detector may record.
var acceptedParticles = map[string]bool{
	"e-": true, "e+": true, "gamma": true,
	"mu-": true, "mu+": true,
	"nu_e": true, "nu_mu": true,
	"proton": true, "neutron": true,
	"geantino": true, "chargedgeantino": true,
	"all": true,
}

// Default returns the canonical defaults. Load overlays a JSON document and
// the environment on top of these.
func Default() *Config {
	return &Config{
		RandomSeed: time.Now().Unix(),
		NumWorkers: 1,
		Constructor: ConstructorConfig{
			InputGeometry: "custom",
			Topology:      "flat",
			EarthRadiusKm: 6371,
			SizeKm:        100,
			HeightKm:      70,
			LayerCount:    100,
			Composition: []geometry.Component{
				{Element: "N", Percent: 70},
				{Element: "O", Percent: 27},
				{Element: "Ar", Percent: 3},
			},
			MagneticField: MagneticFieldConfig{
				Enabled:      true,
				Source:       "model",
				LatitudeDeg:  42.224,
				LongitudeDeg: -8.716,
				Date:         "2021-01-01",
			},
			Detectors: DetectorConfig{
				Enabled:     true,
				AltitudesKm: []float64{0},
				Particles:   []string{"mu-"},
			},
		},
	}
}

// Load reads the JSON configuration at path, overlays environment variables,
// and validates the result. Fields omitted from the JSON keep their defaults,
// so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate runs the tag validators and the cross-field rules. Any failure is
// fatal: construction never proceeds with a partially invalid configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	ctor := c.Constructor

	if ctor.InputGeometry == "file" {
		if ctor.GeometryFile == "" {
			return fmt.Errorf("input_geometry is \"file\" but no geometry_file is set")
		}
		if _, err := os.Stat(ctor.GeometryFile); err != nil {
			return fmt.Errorf("geometry file %s not found: %w", ctor.GeometryFile, err)
		}
	} else {
		if ctor.DensityProfile.File == "" {
			return fmt.Errorf("density profile file is required for custom geometry")
		}
		if ext := filepath.Ext(ctor.DensityProfile.File); ext != ".json" {
			return fmt.Errorf("density profile file must have .json extension, got %q", ext)
		}
		if _, err := os.Stat(ctor.DensityProfile.File); err != nil {
			return fmt.Errorf("density profile file %s not found: %w", ctor.DensityProfile.File, err)
		}
		if err := validateComposition(ctor.Composition); err != nil {
			return err
		}
	}

	if ctor.MagneticField.Enabled {
		switch ctor.MagneticField.Source {
		case "file":
			if ctor.MagneticField.File == "" {
				return fmt.Errorf("magnetic field source is \"file\" but no file is set")
			}
			if ext := filepath.Ext(ctor.MagneticField.File); ext != ".csv" {
				return fmt.Errorf("magnetic field file must have .csv extension, got %q", ext)
			}
			if _, err := os.Stat(ctor.MagneticField.File); err != nil {
				return fmt.Errorf("magnetic field file %s not found: %w", ctor.MagneticField.File, err)
			}
		case "model":
			if _, err := ctor.MagneticField.Time(); err != nil {
				return err
			}
		}
	}

	if ctor.Detectors.Enabled {
		if len(ctor.Detectors.AltitudesKm) == 0 {
			return fmt.Errorf("at least one detector altitude is required when detectors are enabled")
		}
		for _, alt := range ctor.Detectors.AltitudesKm {
			if alt < 0 {
				return fmt.Errorf("detector altitude must be >= 0, got %v", alt)
			}
		}
		if len(ctor.Detectors.Particles) == 0 {
			return fmt.Errorf("at least one accepted particle is required when detectors are enabled")
		}
		for _, p := range ctor.Detectors.Particles {
			if !acceptedParticles[p] {
				return fmt.Errorf("invalid detector particle %q", p)
			}
		}
	}

	return nil
}

func validateComposition(comps []geometry.Component) error {
	if len(comps) == 0 {
		return fmt.Errorf("atmosphere composition must have at least one component")
	}
	for i, comp := range comps {
		if comp.Element == "" {
			return fmt.Errorf("composition component %d has empty element", i)
		}
		if comp.Percent <= 0 {
			return fmt.Errorf("composition component %q has non-positive share %v", comp.Element, comp.Percent)
		}
	}
	return nil
}
