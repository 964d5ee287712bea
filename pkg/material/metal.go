package material

import (
	"github.com/df07/go-weekend-pathtracer/pkg/core"
)

// NewMetal creates a new metal material
func NewMetal(albedo core.Color, fuzzness float64) Material {
	// Clamp fuzzness to valid range
	if fuzzness > 1.0 {
		fuzzness = 1.0
	}
	if fuzzness < 0.0 {
		fuzzness = 0.0
	}
	return Material{Kind: KindMetal, Albedo: albedo, Fuzzness: fuzzness}
}

// scatterMetal reflects specularly, perturbed by fuzz. Rays pushed below the
// surface are absorbed.
func (m *Material) scatterMetal(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := Reflect(rayIn.Direction.Normalize(), hit.Normal)

	if m.Fuzzness > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(sampler).Multiply(m.Fuzzness))
	}

	scattered := core.NewRay(hit.Point, reflected)
	return ScatterResult{
		Scattered:   scattered,
		Attenuation: m.Albedo,
	}, scattered.Direction.Dot(hit.Normal) > 0
}
