package material

import (
	"fmt"
	"strings"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
)

// Kind identifies which scattering model a Material uses
type Kind uint8

const (
	KindLambertian Kind = iota
	KindMetal
	KindDielectric
)

var kindNames = [...]string{
	KindLambertian: "lambertian",
	KindMetal:      "metal",
	KindDielectric: "dielectric",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind maps a material name (case-insensitive) to its Kind
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if strings.EqualFold(name, n) {
			return Kind(k), true
		}
	}
	return 0, false
}

// Material is a closed set of surface models. Only the fields relevant to
// Kind are meaningful; the rest stay zero.
type Material struct {
	Kind            Kind
	Albedo          core.Color // Lambertian and Metal reflectance
	Fuzzness        float64    // Metal only: 0.0 = perfect mirror, 1.0 = very fuzzy
	RefractiveIndex float64    // Dielectric only
}

// Scatter computes the outgoing ray and attenuation for a ray hitting this
// material. It returns false when the ray is absorbed.
func (m *Material) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case KindLambertian:
		return m.scatterLambertian(hit, sampler)
	case KindMetal:
		return m.scatterMetal(rayIn, hit, sampler)
	case KindDielectric:
		return m.scatterDielectric(rayIn, hit, sampler)
	default:
		return ScatterResult{}, false
	}
}

func (m Material) String() string {
	switch m.Kind {
	case KindLambertian:
		return fmt.Sprintf("lambertian(albedo=%v)", m.Albedo)
	case KindMetal:
		return fmt.Sprintf("metal(albedo=%v, fuzz=%g)", m.Albedo, m.Fuzzness)
	case KindDielectric:
		return fmt.Sprintf("dielectric(ior=%g)", m.RefractiveIndex)
	}
	return m.Kind.String()
}
