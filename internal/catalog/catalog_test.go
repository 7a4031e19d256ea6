package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/dynamo"
)

func TestSolarSystem(t *testing.T) {
	specs := SolarSystem()
	if len(specs) != 9 {
		t.Fatalf("expected 9 bodies, got %d", len(specs))
	}
	if err := Validate(specs); err != nil {
		t.Fatalf("built-in catalog invalid: %v", err)
	}
	if !specs[0].Emissive || specs[0].Orbit != nil {
		t.Error("sun should be emissive with no orbital elements")
	}

	rings := 0
	for _, s := range specs {
		if s.Rings != nil {
			rings++
			if s.Name != "Saturn" {
				t.Errorf("unexpected rings on %s", s.Name)
			}
		}
	}
	if rings != 1 {
		t.Errorf("expected one ringed body, got %d", rings)
	}
}

func TestSolarSystem_FreshRecords(t *testing.T) {
	a := SolarSystem()
	a[3].Orbit.Period = 1
	a[3].Position[0] = 0

	b := SolarSystem()
	if b[3].Orbit.Period == 1 || b[3].Position[0] == 0 {
		t.Error("SolarSystem shares records between calls")
	}
}

func TestGetPreset(t *testing.T) {
	tests := []struct {
		name   string
		bodies int
	}{
		{"solar", 9},
		{"inner", 5},
		{"binary", 2},
		{"figure8", 3},
	}
	for _, tt := range tests {
		specs := GetPreset(tt.name)
		if len(specs) != tt.bodies {
			t.Errorf("preset %s: expected %d bodies, got %d", tt.name, tt.bodies, len(specs))
		}
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if got := ListPresets(); len(got) != 4 || got[0] != "binary" {
		t.Errorf("unexpected preset list %v", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.yaml")
	if err := Save(path, SolarSystem()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	specs, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(specs) != 9 {
		t.Fatalf("expected 9 bodies, got %d", len(specs))
	}
	saturn := specs[6]
	if saturn.Rings == nil || saturn.Rings.OuterRadius != 2.3 {
		t.Errorf("rings lost in round trip: %+v", saturn.Rings)
	}
	if specs[0].Orbit != nil {
		t.Error("absent orbital elements became present")
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"empty.yaml":     "bodies: []\n",
		"mass.yaml":      "bodies:\n  - name: X\n    mass: -1\n    radius: 1\n",
		"duplicate.yaml": "bodies:\n  - {name: X, mass: 1, radius: 1}\n  - {name: X, mass: 1, radius: 1}\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if !errors.Is(err, dynamo.ErrInvalidBody) && !errors.Is(err, dynamo.ErrDuplicateBody) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestResolve(t *testing.T) {
	specs, err := Resolve("")
	if err != nil || len(specs) != 9 {
		t.Errorf("default resolve: %d bodies, err %v", len(specs), err)
	}

	path := filepath.Join(t.TempDir(), "binary.yaml")
	if err := Save(path, Binary()); err != nil {
		t.Fatal(err)
	}
	specs, err = Resolve(path)
	if err != nil || len(specs) != 2 {
		t.Errorf("file resolve: %d bodies, err %v", len(specs), err)
	}

	if _, err := Resolve("no-such-catalog"); err == nil {
		t.Error("expected error for unknown catalog")
	}
}

func TestFigure8_ZeroMomentum(t *testing.T) {
	var p mgl64.Vec3
	for _, s := range Figure8() {
		p = p.Add(s.Velocity.Mul(s.Mass))
	}
	if p.Len() > 1e-6*SunMass {
		t.Errorf("expected zero net momentum, got %v", p)
	}
}
