// Package scene groups field graphs into named parts, each meshed inside
// its own region.
package scene

import (
	"errors"
	"fmt"

	"github.com/chazu/sdfkit/pkg/field"
	"github.com/chazu/sdfkit/pkg/kernel"
)

var (
	// ErrDuplicatePart is returned when adding a part whose name is taken.
	ErrDuplicatePart = errors.New("scene: duplicate part name")
	// ErrUnnamedPart is returned when adding a part without a name.
	ErrUnnamedPart = errors.New("scene: part has no name")
)

// Part is a named field graph together with the region to mesh it in.
type Part struct {
	Name   string
	Root   *field.Node
	Region kernel.Region
}

// Scene is an ordered collection of parts with unique names.
type Scene struct {
	Parts  []*Part
	byName map[string]*Part
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{byName: make(map[string]*Part)}
}

// Add appends p to the scene.
func (s *Scene) Add(p *Part) error {
	if p.Name == "" {
		return ErrUnnamedPart
	}
	if _, ok := s.byName[p.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicatePart, p.Name)
	}
	s.Parts = append(s.Parts, p)
	s.byName[p.Name] = p
	return nil
}

// Lookup returns the part with the given name or nil.
func (s *Scene) Lookup(name string) *Part {
	return s.byName[name]
}

// PartCount returns the number of parts.
func (s *Scene) PartCount() int {
	return len(s.Parts)
}

// Validate checks every part's graph and region and joins the findings.
func (s *Scene) Validate() error {
	var errs []error
	for _, p := range s.Parts {
		if err := field.Check(p.Root); err != nil {
			errs = append(errs, fmt.Errorf("part %q: %w", p.Name, err))
		}
		if err := p.Region.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("part %q: %w", p.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Root returns the union of all part graphs, or nil for an empty scene.
// Parts share their nodes with the returned graph.
func (s *Scene) Root() *field.Node {
	switch len(s.Parts) {
	case 0:
		return nil
	case 1:
		return s.Parts[0].Root
	}
	u := field.Union()
	for _, p := range s.Parts {
		u.Add(p.Root)
	}
	return u
}

// Bounds returns the smallest region enclosing all part regions, sampled at
// the finest resolution of any part.
func (s *Scene) Bounds() kernel.Region {
	if len(s.Parts) == 0 {
		return kernel.Region{}
	}
	r := s.Parts[0].Region
	for _, p := range s.Parts[1:] {
		q := p.Region
		r.Lower.X, r.Lower.Y, r.Lower.Z = min(r.Lower.X, q.Lower.X), min(r.Lower.Y, q.Lower.Y), min(r.Lower.Z, q.Lower.Z)
		r.Upper.X, r.Upper.Y, r.Upper.Z = max(r.Upper.X, q.Upper.X), max(r.Upper.Y, q.Upper.Y), max(r.Upper.Z, q.Upper.Z)
		r.Resolution.X = min(r.Resolution.X, q.Resolution.X)
		r.Resolution.Y = min(r.Resolution.Y, q.Resolution.Y)
		r.Resolution.Z = min(r.Resolution.Z, q.Resolution.Z)
	}
	return r
}
