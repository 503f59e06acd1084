// Package render draws field graphs by sphere tracing one primary ray per
// pixel. A Renderer owns the tracing loop; Generators turn trace results
// into images (depth, iteration heat, Blinn-Phong shading).
package render

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/sdfkit/pkg/field"
)

// Material holds Blinn-Phong reflectance. Colors are linear RGB in [0, 1].
type Material struct {
	Ambient  v3.Vec  `json:"ambient" yaml:"ambient"`
	Diffuse  v3.Vec  `json:"diffuse" yaml:"diffuse"`
	Specular v3.Vec  `json:"specular" yaml:"specular"`
	Hardness float64 `json:"hardness" yaml:"hardness"`
}

// DefaultMaterial is a mid-grey plastic.
func DefaultMaterial() Material {
	return Material{
		Ambient:  v3.Vec{},
		Diffuse:  v3.Vec{X: 0.5, Y: 0.5, Z: 0.5},
		Specular: v3.Vec{X: 1, Y: 1, Z: 1},
		Hardness: 32,
	}
}

// MaterialOf returns the material attached to n, or the default material
// when n carries none. Both Material and *Material attachments are accepted.
func MaterialOf(n *field.Node) Material {
	v, ok := n.Attachment(field.AttachMaterial)
	if !ok {
		return DefaultMaterial()
	}
	switch m := v.(type) {
	case Material:
		return m
	case *Material:
		if m != nil {
			return *m
		}
	}
	return DefaultMaterial()
}

// Light is a white point light.
type Light struct {
	Position  v3.Vec  `json:"position" yaml:"position"`
	Intensity float64 `json:"intensity" yaml:"intensity"`
}

// DefaultLight sits high above the origin on +Z.
func DefaultLight() Light {
	return Light{Position: v3.Vec{Z: 100}, Intensity: 1}
}
