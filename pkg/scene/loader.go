package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/integrator"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
)

var (
	// ErrUnknownMaterial is returned when a material type or reference cannot be resolved
	ErrUnknownMaterial = errors.New("unknown material")
	// ErrInvalidScene is returned for structurally valid JSON that describes an unusable scene
	ErrInvalidScene = errors.New("invalid scene")
)

type vec3 [3]float64

func (v vec3) toVec3() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

func fromVec3(v core.Vec3) vec3 { return vec3{v.X, v.Y, v.Z} }

type cameraFile struct {
	LookFrom      vec3    `json:"lookFrom"`
	LookAt        vec3    `json:"lookAt"`
	Up            vec3    `json:"up"`
	VFov          float64 `json:"vfov"`
	AspectRatio   float64 `json:"aspectRatio"`
	Aperture      float64 `json:"aperture"`
	FocusDistance float64 `json:"focusDistance"`
}

type renderFile struct {
	Width           int `json:"width"`
	SamplesPerPixel int `json:"samplesPerPixel"`
	MaxDepth        int `json:"maxDepth"`
}

type backgroundFile struct {
	Top    vec3 `json:"top"`
	Bottom vec3 `json:"bottom"`
}

type materialFile struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`   // lambertian, metal or dielectric
	Albedo vec3    `json:"albedo"` // lambertian and metal
	Fuzz   float64 `json:"fuzz"`   // metal
	IOR    float64 `json:"ior"`    // dielectric
}

type sphereFile struct {
	Center   vec3    `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
}

// sceneFile is the JSON layout of a scene description
type sceneFile struct {
	Camera     cameraFile     `json:"camera"`
	Render     renderFile     `json:"render"`
	Background backgroundFile `json:"background"`
	Materials  []materialFile `json:"materials"`
	Spheres    []sphereFile   `json:"spheres"`
}

// newSceneFile returns a description pre-filled with defaults, so keys left out
// of the JSON keep them
func newSceneFile() sceneFile {
	camera := renderer.DefaultCameraConfig()
	sampling := renderer.DefaultSamplingConfig()
	background := integrator.DefaultBackground()
	return sceneFile{
		Camera: cameraFile{
			LookFrom:      fromVec3(camera.LookFrom),
			LookAt:        fromVec3(camera.LookAt),
			Up:            fromVec3(camera.Up),
			VFov:          camera.VFov,
			AspectRatio:   camera.AspectRatio,
			Aperture:      camera.Aperture,
			FocusDistance: camera.FocusDistance,
		},
		Render: renderFile{
			Width:           sampling.Width,
			SamplesPerPixel: sampling.SamplesPerPixel,
			MaxDepth:        sampling.MaxDepth,
		},
		Background: backgroundFile{
			Top:    fromVec3(background.Top),
			Bottom: fromVec3(background.Bottom),
		},
	}
}

// LoadScene reads a JSON scene description from path
func LoadScene(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer f.Close()

	s, err := ParseScene(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScene decodes a JSON scene description
func ParseScene(r io.Reader) (*Scene, error) {
	desc := newSceneFile()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&desc); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	if desc.Camera.AspectRatio <= 0 {
		return nil, fmt.Errorf("%w: aspect ratio %g", ErrInvalidScene, desc.Camera.AspectRatio)
	}
	if desc.Camera.VFov <= 0 || desc.Camera.VFov >= 180 {
		return nil, fmt.Errorf("%w: vertical fov %g", ErrInvalidScene, desc.Camera.VFov)
	}

	cameraConfig := renderer.CameraConfig{
		LookFrom:      desc.Camera.LookFrom.toVec3(),
		LookAt:        desc.Camera.LookAt.toVec3(),
		Up:            desc.Camera.Up.toVec3(),
		VFov:          desc.Camera.VFov,
		AspectRatio:   desc.Camera.AspectRatio,
		Aperture:      desc.Camera.Aperture,
		FocusDistance: desc.Camera.FocusDistance,
	}
	if cameraConfig.LookFrom == cameraConfig.LookAt {
		return nil, fmt.Errorf("%w: camera looks at its own position", ErrInvalidScene)
	}

	samplingConfig := renderer.SamplingConfig{
		SamplesPerPixel: desc.Render.SamplesPerPixel,
		MaxDepth:        desc.Render.MaxDepth,
	}

	s := New(cameraConfig, samplingConfig)
	s.Resize(desc.Render.Width)
	if err := s.SamplingConfig.Validate(); err != nil {
		return nil, err
	}

	s.Background = integrator.Background{
		Top:    desc.Background.Top.toVec3(),
		Bottom: desc.Background.Bottom.toVec3(),
	}

	handles := make(map[string]material.Handle, len(desc.Materials))
	for i, mf := range desc.Materials {
		if mf.Name == "" {
			return nil, fmt.Errorf("%w: material %d has no name", ErrInvalidScene, i)
		}
		if _, exists := handles[mf.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate material %q", ErrInvalidScene, mf.Name)
		}
		m, err := mf.toMaterial()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", mf.Name, err)
		}
		handles[mf.Name] = s.AddMaterial(m)
	}

	for i, sf := range desc.Spheres {
		h, ok := handles[sf.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d: %w %q", i, ErrUnknownMaterial, sf.Material)
		}
		if sf.Radius == 0 {
			return nil, fmt.Errorf("%w: sphere %d has zero radius", ErrInvalidScene, i)
		}
		s.World.AddSphere(sf.Center.toVec3(), sf.Radius, h)
	}

	return s, nil
}

func (mf materialFile) toMaterial() (material.Material, error) {
	kind, ok := material.ParseKind(mf.Type)
	if !ok {
		return material.Material{}, fmt.Errorf("%w type %q", ErrUnknownMaterial, mf.Type)
	}

	switch kind {
	case material.KindLambertian:
		return material.NewLambertian(mf.Albedo.toVec3()), nil
	case material.KindMetal:
		return material.NewMetal(mf.Albedo.toVec3(), mf.Fuzz), nil
	case material.KindDielectric:
		if mf.IOR <= 0 {
			return material.Material{}, fmt.Errorf("%w: refractive index %g", ErrInvalidScene, mf.IOR)
		}
		return material.NewDielectric(mf.IOR), nil
	}
	return material.Material{}, fmt.Errorf("%w type %q", ErrUnknownMaterial, mf.Type)
}
