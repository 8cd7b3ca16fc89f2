package universe

import (
	"fmt"
	"os"

	"github.com/san-kum/gravsim/internal/body"
	"gopkg.in/yaml.v3"
)

type yamlBody struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	VX    float64 `yaml:"vx"`
	VY    float64 `yaml:"vy"`
	Mass  float64 `yaml:"mass"`
	Asset string  `yaml:"asset"`
}

type yamlUniverse struct {
	Radius float64    `yaml:"radius"`
	Bodies []yamlBody `yaml:"bodies"`
}

// ParseYAML decodes a universe described as
//
//	radius: 2.5e11
//	bodies:
//	  - {x: 0, y: 0, vx: 0, vy: 0, mass: 1.989e30, asset: sun.gif}
func ParseYAML(data []byte) (*Universe, error) {
	var doc yamlUniverse
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	u := &Universe{Radius: doc.Radius, Bodies: make([]*body.Body, len(doc.Bodies))}
	for i, b := range doc.Bodies {
		u.Bodies[i] = body.New(b.X, b.Y, b.VX, b.VY, b.Mass, b.Asset)
	}
	return u, nil
}

func LoadYAML(path string) (*Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseYAML(data)
}

// MarshalYAML encodes u in the ParseYAML layout.
func MarshalYAML(u *Universe) ([]byte, error) {
	doc := yamlUniverse{Radius: u.Radius, Bodies: make([]yamlBody, len(u.Bodies))}
	for i, b := range u.Bodies {
		doc.Bodies[i] = yamlBody{X: b.X(), Y: b.Y(), VX: b.VX(), VY: b.VY(), Mass: b.Mass(), Asset: b.Asset()}
	}
	return yaml.Marshal(doc)
}
