package catalog

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/dynamo"
	"gopkg.in/yaml.v3"
)

// DefaultPreset is the catalog used when none is configured.
const DefaultPreset = "solar"

var Presets = map[string]func() []body.Spec{
	"solar":   SolarSystem,
	"inner":   InnerPlanets,
	"binary":  Binary,
	"figure8": Figure8,
}

// InnerPlanets is the Sun through Mars.
func InnerPlanets() []body.Spec {
	return SolarSystem()[:5]
}

// Binary is the Sun and an Earth-mass planet on a circular orbit at 1 AU.
func Binary() []body.Spec {
	const mass = 5.972e24
	const G = 6.67430e-11
	v := math.Sqrt(G * (SunMass + mass) / AU)
	sun := SolarSystem()[0]
	return []body.Spec{
		sun,
		{
			Name:     "Planet",
			Mass:     mass,
			Radius:   6.371e6,
			Position: mgl64.Vec3{AU, 0, 0},
			Velocity: mgl64.Vec3{0, 0, v},
			Color:    body.RGB{0.2, 0.5, 0.95},
			Orbit: &body.OrbitalElements{
				SemiMajorAxis: AU,
				Period:        2 * math.Pi * math.Sqrt(AU*AU*AU/(G*(SunMass+mass))),
			},
		},
	}
}

func GetPreset(name string) []body.Spec {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// File is the on-disk catalog format.
type File struct {
	Bodies []body.Spec `yaml:"bodies"`
}

func Load(path string) ([]body.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if err := Validate(f.Bodies); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return f.Bodies, nil
}

func Save(path string, specs []body.Spec) error {
	data, err := yaml.Marshal(File{Bodies: specs})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve returns the preset called source, or loads source as a file.
func Resolve(source string) ([]body.Spec, error) {
	if source == "" {
		source = DefaultPreset
	}
	if specs := GetPreset(source); specs != nil {
		return specs, nil
	}
	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("unknown catalog %q (presets: %v)", source, ListPresets())
	}
	return Load(source)
}

// Validate checks every spec and name uniqueness.
func Validate(specs []body.Spec) error {
	if len(specs) == 0 {
		return fmt.Errorf("%w: catalog has no bodies", dynamo.ErrInvalidBody)
	}
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: %s", dynamo.ErrDuplicateBody, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}
