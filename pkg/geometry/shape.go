package geometry

import (
	"fmt"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
)

// ShapeKind identifies the payload carried by a Primitive
type ShapeKind uint8

const (
	ShapeSphere ShapeKind = iota
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	}
	return fmt.Sprintf("ShapeKind(%d)", k)
}

// Primitive is a closed set of shapes stored by value, so the intersection
// loop dispatches with a switch instead of an interface call.
type Primitive struct {
	Kind   ShapeKind
	Sphere Sphere
}

// NewSpherePrimitive wraps a sphere as a Primitive
func NewSpherePrimitive(center core.Point3, radius float64, mat material.Handle) Primitive {
	return Primitive{Kind: ShapeSphere, Sphere: NewSphere(center, radius, mat)}
}

// Hit intersects the ray with the underlying shape
func (p *Primitive) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	switch p.Kind {
	case ShapeSphere:
		return p.Sphere.Hit(ray, tMin, tMax)
	default:
		return material.HitRecord{}, false
	}
}
