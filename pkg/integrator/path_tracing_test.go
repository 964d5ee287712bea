package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
)

// testScene implements Scene for testing
type testScene struct {
	world      geometry.Hittable
	materials  *material.Library
	background Background
}

func (s *testScene) GetWorld() geometry.Hittable     { return s.world }
func (s *testScene) GetMaterials() *material.Library { return s.materials }
func (s *testScene) GetBackground() Background       { return s.background }

// mockHittable returns a fixed hit for every ray
type mockHittable struct {
	hit material.HitRecord
}

func (m mockHittable) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	return m.hit, true
}

func newEmptyScene() *testScene {
	return &testScene{
		world:      geometry.NewHittableList(),
		materials:  material.NewLibrary(),
		background: DefaultBackground(),
	}
}

// createTestScene builds a small scene with one sphere of each material
func createTestScene() *testScene {
	lib := material.NewLibrary()
	ground := lib.Add(material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0)))
	center := lib.Add(material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3)))
	glass := lib.Add(material.NewDielectric(1.5))
	metal := lib.Add(material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3))

	world := geometry.NewHittableList()
	world.AddSphere(core.NewVec3(0, -100.5, -1), 100, ground)
	world.AddSphere(core.NewVec3(0, 0, -1), 0.5, center)
	world.AddSphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	world.AddSphere(core.NewVec3(-1, 0, -1), -0.45, glass)
	world.AddSphere(core.NewVec3(1, 0, -1), 0.5, metal)

	return &testScene{world: world, materials: lib, background: DefaultBackground()}
}

func colorsClose(a, b core.Color, tolerance float64) bool {
	return a.Subtract(b).Length() <= tolerance
}

func TestPathTracing_ZeroDepthIsBlack(t *testing.T) {
	integrator := NewPathTracingIntegrator()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	scenes := map[string]Scene{
		"empty":     newEmptyScene(),
		"populated": createTestScene(),
	}
	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)),
		core.NewRay(core.NewVec3(3, 2, 1), core.NewVec3(-1, -0.5, -2)),
	}

	for name, sc := range scenes {
		for _, ray := range rays {
			for _, depth := range []int{0, -1} {
				if got := integrator.RayColor(ray, sc, sampler, depth); got != (core.Vec3{}) {
					t.Errorf("%s scene, depth %d: expected black, got %v", name, depth, got)
				}
			}
		}
	}
}

func TestPathTracing_BackgroundGradient(t *testing.T) {
	integrator := NewPathTracingIntegrator()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	sc := newEmptyScene()

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Color
	}{
		{"straight down", core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1)},
		{"straight up", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"horizontal", core.NewVec3(0, 0, -1), core.NewVec3(0.75, 0.85, 1.0)},
		{"unnormalized up", core.NewVec3(0, 25, 0), core.NewVec3(0.5, 0.7, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(0, 0, 0), tt.direction)
			got := integrator.RayColor(ray, sc, sampler, 50)
			if !colorsClose(got, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPathTracing_AbsorbedRayIsBlack(t *testing.T) {
	lib := material.NewLibrary()
	metal := lib.Add(material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0))

	// Normal on the same side as the ray direction forces reflection into the surface
	sc := &testScene{
		world: mockHittable{hit: material.HitRecord{
			Point:    core.NewVec3(0, 0, 0),
			Normal:   core.NewVec3(0, 1, 0),
			Material: metal,
			T:        1,
		}},
		materials:  lib,
		background: DefaultBackground(),
	}

	ray := core.NewRay(core.NewVec3(-1, -0.5, 0), core.NewVec3(1, 0.5, 0))
	got := NewPathTracingIntegrator().RayColor(ray, sc, core.NewSeededSampler(1), 10)
	if got != (core.Vec3{}) {
		t.Errorf("Absorbed ray should be black, got %v", got)
	}
}

func TestPathTracing_EnclosedCameraNeverEscapes(t *testing.T) {
	lib := material.NewLibrary()
	wall := lib.Add(material.NewLambertian(core.NewVec3(0.9, 0.9, 0.9)))
	world := geometry.NewHittableList()
	world.AddSphere(core.NewVec3(0, 0, 0), 10, wall)
	sc := &testScene{world: world, materials: lib, background: DefaultBackground()}

	integrator := NewPathTracingIntegrator()
	sampler := core.NewSeededSampler(5)
	for _, depth := range []int{1, 2, 10} {
		ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0.3, 0.1, -1))
		if got := integrator.RayColor(ray, sc, sampler, depth); got != (core.Vec3{}) {
			t.Errorf("depth %d: path trapped inside a closed surface should end black, got %v", depth, got)
		}
	}
}

func TestPathTracing_MirrorReflectsSky(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.6, 0.4)
	lib := material.NewLibrary()
	mirror := lib.Add(material.NewMetal(albedo, 0))
	world := geometry.NewHittableList()
	world.AddSphere(core.NewVec3(0, -100, 0), 100, mirror)
	sc := &testScene{world: world, materials: lib, background: DefaultBackground()}

	ray := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0.2, -1, -1))
	hit, ok := world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !ok {
		t.Fatal("Test setup error: ray should hit the mirror")
	}
	reflected := core.NewRay(hit.Point, material.Reflect(ray.Direction.Normalize(), hit.Normal))
	expected := albedo.MultiplyVec(sc.background.Color(reflected))

	got := NewPathTracingIntegrator().RayColor(ray, sc, core.NewSeededSampler(1), 50)
	if !colorsClose(got, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	// Only one bounce allowed: the reflected ray cannot reach the sky
	if got := NewPathTracingIntegrator().RayColor(ray, sc, core.NewSeededSampler(1), 1); got != (core.Vec3{}) {
		t.Errorf("Depth 1 should end at the first surface, got %v", got)
	}
}

// recursiveRayColor is the direct recursive definition of the estimator
func recursiveRayColor(ray core.Ray, sc Scene, sampler core.Sampler, depth int) core.Color {
	if depth <= 0 {
		return core.Vec3{}
	}
	hit, ok := sc.GetWorld().Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !ok {
		return sc.GetBackground().Color(ray)
	}
	scatter, ok := sc.GetMaterials().Scatter(ray, hit, sampler)
	if !ok {
		return core.Vec3{}
	}
	return scatter.Attenuation.MultiplyVec(recursiveRayColor(scatter.Scattered, sc, sampler, depth-1))
}

func TestPathTracing_MatchesRecursiveDefinition(t *testing.T) {
	sc := createTestScene()
	integrator := NewPathTracingIntegrator()
	directions := core.NewSeededSampler(11)

	for i := 0; i < 200; i++ {
		dir := core.NewVec3(2*directions.Get1D()-1, 2*directions.Get1D()-1, -1)
		ray := core.NewRay(core.NewVec3(0, 0, 1), dir)

		seed := int64(1000 + i)
		got := integrator.RayColor(ray, sc, core.NewSeededSampler(seed), 10)
		expected := recursiveRayColor(ray, sc, core.NewSeededSampler(seed), 10)

		if !colorsClose(got, expected, 1e-12) {
			t.Fatalf("ray %d: iterative %v differs from recursive %v", i, got, expected)
		}
	}
}

func TestPathTracing_NeverExceedsBackground(t *testing.T) {
	sc := createTestScene()
	integrator := NewPathTracingIntegrator()
	sampler := core.NewSeededSampler(3)

	for i := 0; i < 500; i++ {
		ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(2*sampler.Get1D()-1, 2*sampler.Get1D()-1, -1))
		c := integrator.RayColor(ray, sc, sampler, 20)
		if c.X < 0 || c.Y < 0 || c.Z < 0 || c.X > 1 || c.Y > 1 || c.Z > 1 {
			t.Fatalf("Radiance %v outside [0,1]; materials should only attenuate", c)
		}
	}
}
