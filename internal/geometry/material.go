package geometry

import "fmt"

// Component is one elemental share of the fixed atmosphere composition.
type Component struct {
	Element string  `json:"element"`
	Percent float64 `json:"percent"`
}

// Material describes one layer's gas state for the transport engine's
// material table: fixed elemental composition with density and temperature
// varying per layer.
type Material struct {
	Name        string
	Density     float64 // kg/m³
	Temperature float64 // kelvin
	Components  []Component
}

// Materials derives one material per layer, in layer order, from the layers'
// density/temperature pairs and the shared composition.
func Materials(layers []Layer, comps []Component) ([]Material, error) {
	if len(comps) == 0 {
		return nil, fmt.Errorf("atmosphere composition must have at least one component")
	}
	for i, c := range comps {
		if c.Element == "" {
			return nil, fmt.Errorf("composition component %d has empty element", i)
		}
		if c.Percent <= 0 {
			return nil, fmt.Errorf("composition component %q has non-positive share %v", c.Element, c.Percent)
		}
	}

	mats := make([]Material, len(layers))
	for i, l := range layers {
		mats[i] = Material{
			Name:        fmt.Sprintf("air_%d", i),
			Density:     l.Density,
			Temperature: l.Temperature,
			Components:  comps,
		}
	}
	return mats, nil
}
