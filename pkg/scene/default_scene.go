package scene

import (
	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
)

// NewDefaultScene creates three spheres on a large ground sphere: diffuse in
// the middle, hollow glass on the left and metal on the right
func NewDefaultScene() *Scene {
	cameraConfig := renderer.CameraConfig{
		LookFrom:      core.NewVec3(-2, 2, 1),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          40.0,
		AspectRatio:   16.0 / 9.0,
		Aperture:      0.0,
		FocusDistance: 0.0, // Auto-calculate focus distance
	}

	s := New(cameraConfig, renderer.DefaultSamplingConfig())

	groundMaterial := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	centerMaterial := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	rightMaterial := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)
	glass := s.AddMaterial(material.NewDielectric(1.5))

	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, groundMaterial)
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, centerMaterial)

	// Negative radius flips the normals inward, making a glass shell
	s.World.AddSphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	s.World.AddSphere(core.NewVec3(-1, 0, -1), -0.45, glass)

	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, rightMaterial)

	return s
}
