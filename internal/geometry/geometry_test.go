package geometry

import (
	"math"
	"testing"
)

func TestBuildFlat(t *testing.T) {
	layers, offset, err := Build(Params{Topology: Flat, HeightKm: 70, LayerCount: 10, SizeKm: 100})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if float64(offset) != -35 {
		t.Errorf("offset = %v, want -35", float64(offset))
	}
	if len(layers) != 10 {
		t.Fatalf("expected 10 layers, got %d", len(layers))
	}
	if layers[0].LowerBound != -35 {
		t.Errorf("layer 0 lower bound = %v, want -35", layers[0].LowerBound)
	}
	if layers[9].UpperBound != 35 {
		t.Errorf("layer 9 upper bound = %v, want 35", layers[9].UpperBound)
	}
	if got := offset.RealOf(layers[0].LowerBound); got != 0 {
		t.Errorf("real altitude of ground bound = %v, want 0", got)
	}
}

func TestBuildCurved(t *testing.T) {
	layers, offset, err := Build(Params{Topology: Curved, HeightKm: 70, LayerCount: 7, SizeKm: 100, EarthRadiusKm: 6371})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if float64(offset) != 6371 {
		t.Errorf("offset = %v, want 6371", float64(offset))
	}
	if layers[0].LowerBound != 6371 {
		t.Errorf("layer 0 lower bound = %v, want 6371", layers[0].LowerBound)
	}
	if layers[6].UpperBound != 6441 {
		t.Errorf("layer 6 upper bound = %v, want 6441", layers[6].UpperBound)
	}
}

func TestBuildLayersContiguous(t *testing.T) {
	for _, tc := range []struct {
		name   string
		params Params
	}{
		{"flat n=1", Params{Topology: Flat, HeightKm: 70, LayerCount: 1}},
		{"flat n=10", Params{Topology: Flat, HeightKm: 70, LayerCount: 10}},
		{"flat odd height", Params{Topology: Flat, HeightKm: 33.3, LayerCount: 7}},
		{"curved n=100", Params{Topology: Curved, HeightKm: 70, LayerCount: 100, EarthRadiusKm: 6371}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			layers, _, err := Build(tc.params)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}

			var total float64
			for i, l := range layers {
				if l.Index != i {
					t.Errorf("layer %d has index %d", i, l.Index)
				}
				if l.LowerBound >= l.UpperBound {
					t.Errorf("layer %d bounds not ordered: [%v, %v]", i, l.LowerBound, l.UpperBound)
				}
				if i > 0 && layers[i-1].UpperBound != l.LowerBound {
					t.Errorf("gap between layers %d and %d: %v != %v", i-1, i, layers[i-1].UpperBound, l.LowerBound)
				}
				total += l.Thickness()
			}
			if math.Abs(total-tc.params.HeightKm) > 1e-9 {
				t.Errorf("total thickness = %v, want %v", total, tc.params.HeightKm)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"zero layers", Params{Topology: Flat, HeightKm: 70, LayerCount: 0}},
		{"negative height", Params{Topology: Flat, HeightKm: -1, LayerCount: 10}},
		{"curved without radius", Params{Topology: Curved, HeightKm: 70, LayerCount: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Build(tt.params); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseTopology(t *testing.T) {
	if topo, err := ParseTopology("flat"); err != nil || topo != Flat {
		t.Errorf("ParseTopology(flat) = %v, %v", topo, err)
	}
	if topo, err := ParseTopology("curved"); err != nil || topo != Curved {
		t.Errorf("ParseTopology(curved) = %v, %v", topo, err)
	}
	if _, err := ParseTopology("spherical"); err == nil {
		t.Error("expected error for unknown topology")
	}
}

func TestOffsetConversions(t *testing.T) {
	o := Offset(-35)
	if got := o.LocalOf(0); got != -35 {
		t.Errorf("LocalOf(0) = %v, want -35", got)
	}
	if got := o.RealOf(-35); got != 0 {
		t.Errorf("RealOf(-35) = %v, want 0", got)
	}

	curved := Offset(6371)
	if got := curved.LocalOf(70); got != 6441 {
		t.Errorf("LocalOf(70) = %v, want 6441", got)
	}
}

func TestLayerContainsInclusive(t *testing.T) {
	l := Layer{LowerBound: -35, UpperBound: -28}
	for _, tc := range []struct {
		local    float64
		expected bool
	}{
		{-35, true},
		{-28, true},
		{-30, true},
		{-27.999, false},
		{-35.001, false},
	} {
		if got := l.Contains(tc.local); got != tc.expected {
			t.Errorf("Contains(%v) = %v, want %v", tc.local, got, tc.expected)
		}
	}
}

func TestSectorAngle(t *testing.T) {
	if got := SectorAngle(100, 6371); math.Abs(got-100.0/6371.0) > 1e-15 {
		t.Errorf("SectorAngle = %v", got)
	}
}

func TestMaterials(t *testing.T) {
	layers := []Layer{
		{Index: 0, LowerBound: 0, UpperBound: 7, Density: 1.2, Temperature: 300},
		{Index: 1, LowerBound: 7, UpperBound: 14, Density: 0.9, Temperature: 280},
	}
	comps := []Component{{Element: "N", Percent: 70}, {Element: "O", Percent: 27}, {Element: "Ar", Percent: 3}}

	mats, err := Materials(layers, comps)
	if err != nil {
		t.Fatalf("Materials: %v", err)
	}
	if len(mats) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(mats))
	}
	if mats[0].Name != "air_0" || mats[1].Name != "air_1" {
		t.Errorf("unexpected names: %q, %q", mats[0].Name, mats[1].Name)
	}
	if mats[1].Density != 0.9 || mats[1].Temperature != 280 {
		t.Errorf("material 1 state = %v kg/m³ %v K", mats[1].Density, mats[1].Temperature)
	}
}

func TestMaterialsErrors(t *testing.T) {
	layers := []Layer{{Index: 0, LowerBound: 0, UpperBound: 7}}
	if _, err := Materials(layers, nil); err == nil {
		t.Error("expected error for empty composition")
	}
	if _, err := Materials(layers, []Component{{Element: "", Percent: 70}}); err == nil {
		t.Error("expected error for empty element")
	}
	if _, err := Materials(layers, []Component{{Element: "N", Percent: 0}}); err == nil {
		t.Error("expected error for zero share")
	}
}
