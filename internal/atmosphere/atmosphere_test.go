package atmosphere

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atmoslab/atmogeom/internal/config"
	"github.com/atmoslab/atmogeom/internal/geometry"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// testConfig returns a validated flat-world configuration: 10 layers over
// 70 km, a two-point profile and a constant one-row field table.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.SaveDir = t.TempDir()
	cfg.Constructor.LayerCount = 10
	cfg.Constructor.DensityProfile.File = writeFile(t, "profile.json",
		`{"0": {"altitude": [0, 70], "T": [300, 220], "density": [1.2, 0.01]}}`)
	cfg.Constructor.MagneticField.Source = "file"
	cfg.Constructor.MagneticField.File = writeFile(t, "field.csv",
		"x,y,z,altitude\n25000,1000,-38000,0\n")
	cfg.Constructor.Detectors.AltitudesKm = []float64{0, 80}
	return cfg
}

func TestBuildFlatModel(t *testing.T) {
	m, err := Build(testConfig(t), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if m.Topology != geometry.Flat {
		t.Errorf("topology = %v, want flat", m.Topology)
	}
	if float64(m.Offset) != -35 {
		t.Errorf("offset = %v, want -35", float64(m.Offset))
	}
	if len(m.Layers) != 10 {
		t.Fatalf("expected 10 layers, got %d", len(m.Layers))
	}
	if len(m.Materials) != 10 {
		t.Fatalf("expected 10 materials, got %d", len(m.Materials))
	}

	// Density decreases with altitude; the lowest layer is the densest.
	for i := 1; i < len(m.Layers); i++ {
		if m.Layers[i].Density >= m.Layers[i-1].Density {
			t.Errorf("density not decreasing at layer %d", i)
		}
	}

	// The one-row table applies the same field to every layer, in tesla.
	want := geometry.Vector3{X: 2.5e-5, Y: 1e-6, Z: -3.8e-5}
	for i, l := range m.Layers {
		if math.Abs(l.Field.X-want.X) > 1e-18 || math.Abs(l.Field.Z-want.Z) > 1e-18 {
			t.Errorf("layer %d field = %+v, want %+v", i, l.Field, want)
		}
	}

	// The ground detector places; the 80 km one is above the atmosphere.
	if len(m.Detectors) != 1 {
		t.Fatalf("expected 1 detector, got %d", len(m.Detectors))
	}
	if m.Detectors[0].LayerIndex != 0 {
		t.Errorf("detector layer = %d, want 0", m.Detectors[0].LayerIndex)
	}
	if len(m.Omitted) != 1 || m.Omitted[0].AltitudeKm != 80 {
		t.Errorf("omissions = %+v, want the 80 km request", m.Omitted)
	}
}

func TestBuildFromGeometryFile(t *testing.T) {
	layers, offset, err := geometry.Build(geometry.Params{
		Topology: geometry.Curved, HeightKm: 70, LayerCount: 5, EarthRadiusKm: 6371,
	})
	if err != nil {
		t.Fatalf("geometry.Build: %v", err)
	}
	for i := range layers {
		layers[i].Density = 1.0 - 0.1*float64(i)
		layers[i].Temperature = 300 - 10*float64(i)
	}
	path := filepath.Join(t.TempDir(), "geometry.json")
	if err := geometry.WriteFile(path, geometry.Curved, layers, offset); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := testConfig(t)
	cfg.Constructor.InputGeometry = "file"
	cfg.Constructor.GeometryFile = path
	cfg.Constructor.MagneticField.Enabled = false
	cfg.Constructor.Detectors.Enabled = false

	m, err := Build(cfg, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.Topology != geometry.Curved {
		t.Errorf("topology = %v, want curved", m.Topology)
	}
	if float64(m.Offset) != 6371 {
		t.Errorf("offset = %v, want 6371", float64(m.Offset))
	}
	if len(m.Layers) != 5 {
		t.Fatalf("expected 5 layers, got %d", len(m.Layers))
	}
	if m.Layers[2].Density != 0.8 {
		t.Errorf("layer 2 density = %v, want 0.8 (from the file, not the profile)", m.Layers[2].Density)
	}
}

type constQuerier struct {
	north, east, down float64
}

func (q constQuerier) Query(latDeg, lonDeg, altKm float64, at time.Time) (float64, float64, float64, error) {
	return q.north, q.east, q.down, nil
}

func TestBuildWithModelField(t *testing.T) {
	cfg := testConfig(t)
	cfg.Constructor.MagneticField.Source = "model"
	cfg.Constructor.MagneticField.File = ""
	cfg.Constructor.MagneticField.Date = "2021-01-01"

	m, err := Build(cfg, constQuerier{north: 25000, east: 1000, down: 38000})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Vertical intensity is positive down in the model; z points up here.
	want := geometry.Vector3{X: 2.5e-5, Y: 1e-6, Z: -3.8e-5}
	for i, l := range m.Layers {
		if math.Abs(l.Field.Z-want.Z) > 1e-18 {
			t.Errorf("layer %d field = %+v, want %+v", i, l.Field, want)
		}
	}
}

func TestBuildFieldDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Constructor.MagneticField.Enabled = false

	m, err := Build(cfg, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i, l := range m.Layers {
		if l.Field != (geometry.Vector3{}) {
			t.Errorf("layer %d field = %+v, want zero", i, l.Field)
		}
	}
}

func TestBuildRejectsMissingProfileDay(t *testing.T) {
	cfg := testConfig(t)
	cfg.Constructor.DensityProfile.DayIndex = 9

	if _, err := Build(cfg, nil); err == nil {
		t.Error("expected error for missing profile day")
	}
}
