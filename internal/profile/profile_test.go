package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/atmoslab/atmogeom/internal/testutil"
)

func writeProfileFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

const twoDayProfile = `{
	"0": {"altitude": [0, 35, 70], "T": [300, 260, 220], "density": [1.2, 0.6, 0.01]},
	"3": {"altitude": [0, 70], "T": [300, 220], "density": [1.2, 0.01]}
}`

func TestLoad(t *testing.T) {
	path := writeProfileFile(t, twoDayProfile)

	p, err := Load(path, 0)
	testutil.AssertNoError(t, err)
	if len(p.Altitude) != 3 {
		t.Fatalf("expected 3 points, got %d", len(p.Altitude))
	}
	if p.Density[0] != 1.2 || p.Temperature[2] != 220 {
		t.Errorf("unexpected profile values: %+v", p)
	}
}

func TestLoadDayNotFound(t *testing.T) {
	path := writeProfileFile(t, twoDayProfile)

	_, err := Load(path, 7)
	if !errors.Is(err, ErrDayNotFound) {
		t.Fatalf("expected ErrDayNotFound, got %v", err)
	}
}

func TestLoadRejectsBadExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.csv")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path, 0)
	testutil.AssertError(t, err)
}

func TestLoadInvalidProfiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"single point", `{"0": {"altitude": [0], "T": [300], "density": [1.2]}}`},
		{"length mismatch", `{"0": {"altitude": [0, 70], "T": [300], "density": [1.2, 0.01]}}`},
		{"not increasing", `{"0": {"altitude": [70, 0], "T": [300, 220], "density": [1.2, 0.01]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeProfileFile(t, tt.content), 0)
			testutil.AssertError(t, err)
		})
	}
}

func TestResampleIdempotentAtSamplePoints(t *testing.T) {
	p := &Profile{
		Altitude:    []float64{0, 35, 70},
		Temperature: []float64{300, 260, 220},
		Density:     []float64{1.2, 0.6, 0.01},
	}

	// Three samples over [0, 70] land exactly on the original points, so the
	// interpolation must return the original values.
	rs, err := p.Resample(70, 3)
	testutil.AssertNoError(t, err)
	for i := range p.Altitude {
		testutil.AssertInDelta(t, rs.Altitude[i], p.Altitude[i], 1e-12)
		testutil.AssertInDelta(t, rs.Density[i], p.Density[i], 1e-12)
		testutil.AssertInDelta(t, rs.Temperature[i], p.Temperature[i], 1e-12)
	}
}

func TestResampleClampsBeyondProfile(t *testing.T) {
	p := &Profile{
		Altitude:    []float64{0, 10},
		Temperature: []float64{300, 280},
		Density:     []float64{1.2, 1.0},
	}

	// The profile tops out at 10 km but the atmosphere reaches 70 km: samples
	// beyond the last data point hold the boundary value.
	rs, err := p.Resample(70, 8)
	testutil.AssertNoError(t, err)
	last := len(rs.Altitude) - 1
	testutil.AssertInDelta(t, rs.Density[last], 1.0, 1e-12)
	testutil.AssertInDelta(t, rs.Temperature[last], 280, 1e-12)
}

func TestResampleDensityMonotonic(t *testing.T) {
	p := &Profile{
		Altitude:    []float64{0, 70},
		Temperature: []float64{300, 220},
		Density:     []float64{1.2, 0.01},
	}

	rs, err := p.Resample(70, 10)
	testutil.AssertNoError(t, err)
	testutil.AssertInDelta(t, rs.Density[0], 1.2, 1e-9)
	testutil.AssertInDelta(t, rs.Density[9], 0.01, 1e-9)
	for i := 1; i < 10; i++ {
		if rs.Density[i] >= rs.Density[i-1] {
			t.Errorf("density not monotonically decreasing at %d: %v >= %v", i, rs.Density[i], rs.Density[i-1])
		}
	}
}

func TestResampleSingleSample(t *testing.T) {
	p := &Profile{
		Altitude:    []float64{0, 70},
		Temperature: []float64{300, 220},
		Density:     []float64{1.2, 0.01},
	}

	rs, err := p.Resample(70, 1)
	testutil.AssertNoError(t, err)
	if len(rs.Altitude) != 1 || rs.Altitude[0] != 0 {
		t.Fatalf("expected single ground sample, got %v", rs.Altitude)
	}
	testutil.AssertInDelta(t, rs.Density[0], 1.2, 1e-12)
}

func TestResampleArgErrors(t *testing.T) {
	p := &Profile{
		Altitude:    []float64{0, 70},
		Temperature: []float64{300, 220},
		Density:     []float64{1.2, 0.01},
	}
	if _, err := p.Resample(70, 0); err == nil {
		t.Error("expected error for n=0")
	}
	if _, err := p.Resample(-1, 5); err == nil {
		t.Error("expected error for negative height")
	}
}
