package integrator

import (
	"math"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
)

// ShadowAcneEpsilon is the minimum hit distance, keeping scattered rays from
// re-hitting the surface they start on
const ShadowAcneEpsilon = 0.001

// PathTracingIntegrator implements unidirectional path tracing with an
// implicit sky light
type PathTracingIntegrator struct{}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator() *PathTracingIntegrator {
	return &PathTracingIntegrator{}
}

// RayColor estimates the radiance arriving along ray. depth is the number of
// surface interactions allowed; a path that uses them all gathers no light.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scene Scene, sampler core.Sampler, depth int) core.Color {
	world := scene.GetWorld()
	materials := scene.GetMaterials()

	// Product of attenuations along the path so far
	throughput := core.NewVec3(1, 1, 1)

	for ; depth > 0; depth-- {
		hit, isHit := world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
		if !isHit {
			return throughput.MultiplyVec(scene.GetBackground().Color(ray))
		}

		scatter, didScatter := materials.Scatter(ray, hit, sampler)
		if !didScatter {
			return core.Vec3{} // absorbed
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	// Exceeded the bounce limit, no more light is gathered
	return core.Vec3{}
}
