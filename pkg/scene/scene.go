package scene

import (
	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
	"github.com/df07/go-weekend-pathtracer/pkg/integrator"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	World          *geometry.HittableList // Objects in the scene
	Materials      *material.Library      // Materials referenced by World
	Background     integrator.Background
	SamplingConfig renderer.SamplingConfig // Recommended render settings
}

// New creates an empty scene viewed through cameraConfig
func New(cameraConfig renderer.CameraConfig, samplingConfig renderer.SamplingConfig) *Scene {
	return &Scene{
		Camera:         renderer.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		World:          geometry.NewHittableList(),
		Materials:      material.NewLibrary(),
		Background:     integrator.DefaultBackground(),
		SamplingConfig: samplingConfig,
	}
}

func (s *Scene) GetCamera() *renderer.Camera          { return s.Camera }
func (s *Scene) GetWorld() geometry.Hittable          { return s.World }
func (s *Scene) GetMaterials() *material.Library      { return s.Materials }
func (s *Scene) GetBackground() integrator.Background { return s.Background }

// AddMaterial stores m and returns a handle for use by several spheres
func (s *Scene) AddMaterial(m material.Material) material.Handle {
	return s.Materials.Add(m)
}

// AddSphere adds a sphere with its own material
func (s *Scene) AddSphere(center core.Point3, radius float64, m material.Material) {
	s.World.AddSphere(center, radius, s.Materials.Add(m))
}

// Resize sets the image width and derives the height from the camera's
// aspect ratio
func (s *Scene) Resize(width int) {
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = max(int(float64(width)/s.CameraConfig.AspectRatio), 1)
}
