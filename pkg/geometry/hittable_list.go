package geometry

import (
	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
)

// HittableList is a flat collection of primitives intersected by linear scan
type HittableList struct {
	primitives []Primitive
}

// NewHittableList creates a list holding the given primitives
func NewHittableList(primitives ...Primitive) *HittableList {
	return &HittableList{primitives: primitives}
}

// Add appends a primitive to the list
func (l *HittableList) Add(p Primitive) {
	l.primitives = append(l.primitives, p)
}

// AddSphere appends a sphere to the list
func (l *HittableList) AddSphere(center core.Point3, radius float64, mat material.Handle) {
	l.Add(NewSpherePrimitive(center, radius, mat))
}

// Clear removes every primitive
func (l *HittableList) Clear() {
	l.primitives = l.primitives[:0]
}

// Len returns the number of primitives
func (l *HittableList) Len() int {
	return len(l.primitives)
}

// Primitives returns the underlying slice; callers must not modify it while tracing
func (l *HittableList) Primitives() []Primitive {
	return l.primitives
}

// Hit returns the closest intersection across all primitives. The upper
// bound shrinks to each accepted hit, so later primitives can only win
// with a strictly nearer t.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var closestHit material.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for i := range l.primitives {
		if hit, isHit := l.primitives[i].Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}
