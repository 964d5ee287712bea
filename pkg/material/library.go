package material

import (
	"github.com/df07/go-weekend-pathtracer/pkg/core"
)

// Handle is an index into a Library. Surfaces store handles instead of
// owning their materials, so one material can back many surfaces.
type Handle int32

// Library owns every material of a scene. It must outlive the surfaces that
// reference it and is read-only while tracing.
type Library struct {
	materials []Material
}

// NewLibrary creates an empty material library
func NewLibrary() *Library {
	return &Library{}
}

// Add stores a material and returns its handle
func (l *Library) Add(m Material) Handle {
	l.materials = append(l.materials, m)
	return Handle(len(l.materials) - 1)
}

// Get returns the material for h. h must come from this library.
func (l *Library) Get(h Handle) *Material {
	return &l.materials[h]
}

// Len returns the number of stored materials
func (l *Library) Len() int {
	return len(l.materials)
}

// Scatter resolves the hit's material and scatters rayIn off it
func (l *Library) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return l.Get(hit.Material).Scatter(rayIn, hit, sampler)
}
