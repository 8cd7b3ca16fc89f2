package universe

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/gravsim/internal/body"
)

// Presets builds fresh copies of the built-in scenarios.
var Presets = map[string]func() *Universe{
	"planets": func() *Universe {
		return &Universe{
			Radius: 2.50e+11,
			Bodies: []*body.Body{
				body.New(1.4960e+11, 0, 0, 2.9800e+04, 5.9740e+24, "earth.gif"),
				body.New(2.2790e+11, 0, 0, 2.4100e+04, 6.4190e+23, "mars.gif"),
				body.New(5.7900e+10, 0, 0, 4.7900e+04, 3.3020e+23, "mercury.gif"),
				body.New(0, 0, 0, 0, 1.9890e+30, "sun.gif"),
				body.New(1.0820e+11, 0, 0, 3.5000e+04, 4.8690e+24, "venus.gif"),
			},
		}
	},
	"binary": func() *Universe {
		// Two solar masses on a circular orbit about the origin.
		const m, d = 1.989e30, 1.0e11
		v := circularSpeed(m, d)
		return &Universe{
			Radius: 1.5e11,
			Bodies: []*body.Body{
				body.New(-d/2, 0, 0, -v, m, "star_a.gif"),
				body.New(d/2, 0, 0, v, m, "star_b.gif"),
			},
		}
	},
	"triple": func() *Universe {
		return &Universe{
			Radius: 3.0e11,
			Bodies: []*body.Body{
				body.New(-1.5e11, 0, 0, -1.5e4, 5.974e24, "left.gif"),
				body.New(0, 0, 0, 0, 1.989e30, "sun.gif"),
				body.New(1.5e11, 0, 0, 1.5e4, 5.974e24, "right.gif"),
			},
		}
	},
}

// circularSpeed is the orbital speed of each of two equal masses m at
// separation d.
func circularSpeed(m, d float64) float64 {
	return math.Sqrt(body.G * m / (2 * d))
}

func Preset(name string) (*Universe, error) {
	fn, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, ListPresets())
	}
	return fn(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
