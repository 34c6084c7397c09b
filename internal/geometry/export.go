package geometry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// exportDoc is the on-disk form of a built geometry. Writing it once per run
// lets later runs (or other tools) rebuild the exact same layer stack without
// re-deriving it from a profile.
type exportDoc struct {
	Topology string  `json:"topology"`
	OffsetKm float64 `json:"correction_offset_km"`
	Layers   []Layer `json:"layers"`
}

// WriteFile exports the layer geometry to a JSON file at path.
func WriteFile(path string, topo Topology, layers []Layer, offset Offset) error {
	doc := exportDoc{
		Topology: topo.String(),
		OffsetKm: float64(offset),
		Layers:   layers,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode geometry: %w", err)
	}
	if err := os.WriteFile(filepath.Clean(path), data, 0o644); err != nil {
		return fmt.Errorf("failed to write geometry file: %w", err)
	}
	return nil
}

// ReadFile loads a previously exported geometry. The layer count of the model
// then comes from the file rather than the configuration. The stored bounds
// are validated for ordering and contiguity before use.
func ReadFile(path string) (Topology, []Layer, Offset, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return 0, nil, 0, fmt.Errorf("geometry file must have .json extension, got %q", ext)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("failed to read geometry file: %w", err)
	}

	var doc exportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, nil, 0, fmt.Errorf("failed to parse geometry file: %w", err)
	}
	topo, err := ParseTopology(doc.Topology)
	if err != nil {
		return 0, nil, 0, err
	}
	if err := validateLayers(doc.Layers); err != nil {
		return 0, nil, 0, fmt.Errorf("invalid geometry in %s: %w", cleanPath, err)
	}
	return topo, doc.Layers, Offset(doc.OffsetKm), nil
}

func validateLayers(layers []Layer) error {
	if len(layers) == 0 {
		return fmt.Errorf("no layers")
	}
	for i, l := range layers {
		if l.Index != i {
			return fmt.Errorf("layer %d has index %d", i, l.Index)
		}
		if l.LowerBound >= l.UpperBound {
			return fmt.Errorf("layer %d bounds not ordered: [%v, %v]", i, l.LowerBound, l.UpperBound)
		}
		if i > 0 && layers[i-1].UpperBound != l.LowerBound {
			return fmt.Errorf("gap between layers %d and %d: %v != %v", i-1, i, layers[i-1].UpperBound, l.LowerBound)
		}
	}
	return nil
}
