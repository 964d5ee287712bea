package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestRandomSampler_Range(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 1000; i++ {
		v := sampler.Get1D()
		if v < 0 || v >= 1 {
			t.Fatalf("Get1D returned %f outside [0,1)", v)
		}
		p := sampler.Get3D()
		if p.X < 0 || p.X >= 1 || p.Y < 0 || p.Y >= 1 || p.Z < 0 || p.Z >= 1 {
			t.Fatalf("Get3D returned %v outside [0,1)^3", p)
		}
	}
}

func TestRandomSampler_Deterministic(t *testing.T) {
	a := NewSeededSampler(7)
	b := NewSeededSampler(7)

	for i := 0; i < 10; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatal("Samplers with the same seed should produce identical sequences")
		}
	}
}

func TestRandomFloat(t *testing.T) {
	sampler := NewSeededSampler(1)
	for i := 0; i < 1000; i++ {
		v := RandomFloat(sampler, -2, 3)
		if v < -2 || v >= 3 {
			t.Fatalf("RandomFloat returned %f outside [-2,3)", v)
		}
	}
}

func TestRandomInUnitDisk(t *testing.T) {
	sampler := NewSeededSampler(42)

	for i := 0; i < 1000; i++ {
		p := RandomInUnitDisk(sampler)
		if p.Z != 0 {
			t.Fatalf("Disk sample should lie in the z=0 plane, got %v", p)
		}
		if p.LengthSquared() >= 1 {
			t.Fatalf("Disk sample %v outside unit disk", p)
		}
	}
}

func TestRandomInUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(42)

	var mean Vec3
	const n = 20000
	for i := 0; i < n; i++ {
		p := RandomInUnitSphere(sampler)
		if p.LengthSquared() >= 1 {
			t.Fatalf("Sphere sample %v outside unit sphere", p)
		}
		mean = mean.Add(p)
	}

	// Uniform distribution is centered on the origin
	mean = mean.Multiply(1.0 / n)
	if mean.Length() > 0.02 {
		t.Errorf("Expected mean near origin, got %v", mean)
	}
}

func TestRandomUnitVector(t *testing.T) {
	sampler := NewSeededSampler(3)

	for i := 0; i < 1000; i++ {
		v := RandomUnitVector(sampler)
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit vector, got length %f", v.Length())
		}
	}
}

// sequenceSampler replays a fixed list of values, used to force rejection paths
type sequenceSampler struct {
	values []float64
	next   int
}

func (s *sequenceSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *sequenceSampler) Get2D() Vec2 { return NewVec2(s.Get1D(), s.Get1D()) }
func (s *sequenceSampler) Get3D() Vec3 { return NewVec3(s.Get1D(), s.Get1D(), s.Get1D()) }

func TestRandomInUnitDisk_RejectsCorners(t *testing.T) {
	// First candidate maps to (0.98, 0.98) which is outside the disk
	sampler := &sequenceSampler{values: []float64{0.99, 0.99, 0.75, 0.5}}

	p := RandomInUnitDisk(sampler)
	expected := NewVec3(0.5, 0, 0)
	if p.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected second candidate %v, got %v", expected, p)
	}
}
