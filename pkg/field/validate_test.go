package field

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestValidateValidGraph(t *testing.T) {
	scene := Union(
		Difference(UnitBox(), Sphere(0.6)),
		Repeat(v3.Vec{X: 3, Y: math.Inf(1), Z: math.Inf(1)}, Sphere(0.2)),
		Offset(0.1, Rotate(v3.Vec{Z: 45}, Box(v3.Vec{X: 1, Y: 0.1, Z: 0.1}))),
		XYPlane(),
	)
	if errs := Validate(scene); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if err := Check(scene); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestValidateFindings(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want error
		path string
	}{
		{"nil root", nil, ErrNilNode, "/"},
		{"empty union", Union(), ErrNoChildren, "/"},
		{"nested empty difference", Union(Sphere(1), Difference()), ErrNoChildren, "/1"},
		{"nil child", Intersection(Sphere(1), nil), ErrNilNode, "/1"},
		{"negative radius", Sphere(-1), ErrInvalidParameter, "/"},
		{"zero plane normal", Plane(v3.Vec{}, 0), ErrInvalidParameter, "/"},
		{"negative box", Box(v3.Vec{X: -1, Y: 1, Z: 1}), ErrInvalidParameter, "/"},
		{"zero cell", Repeat(v3.Vec{X: 0, Y: 1, Z: 1}, Sphere(1)), ErrInvalidParameter, "/"},
		{"transform with two children", Translate(v3.Vec{}, Sphere(1)).Add(Sphere(2)), ErrInvalidParameter, "/"},
		{"primitive with children", Sphere(1).Add(Sphere(2)), ErrInvalidParameter, "/"},
		{"mismatched data", &Node{Kind: KindSphere, Data: BoxData{}}, ErrInvalidParameter, "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.node)
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, e := range errs {
				if errors.Is(e, tt.want) && e.Path == tt.path {
					found = true
				}
			}
			if !found {
				t.Errorf("no %v at %s in %v", tt.want, tt.path, errs)
			}
			if err := Check(tt.node); !errors.Is(err, tt.want) {
				t.Errorf("Check() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateCycle(t *testing.T) {
	u := Union(Sphere(1))
	u.Add(Translate(v3.Vec{X: 1}, u))
	errs := Validate(u)
	found := false
	for _, e := range errs {
		if errors.Is(e, ErrCycle) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected cycle error, got %v", errs)
	}
}

func TestValidateSharedSubtree(t *testing.T) {
	// A subtree referenced twice is not a cycle.
	s := Sphere(1)
	u := Union(Translate(v3.Vec{X: 1}, s), Translate(v3.Vec{X: -1}, s))
	if errs := Validate(u); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}
