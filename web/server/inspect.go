package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
	"github.com/df07/go-weekend-pathtracer/pkg/integrator"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
	"github.com/df07/go-weekend-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult describes what a pixel's center ray hits
type InspectResult struct {
	Hit       bool
	HitRecord material.HitRecord
	Primitive *geometry.Primitive // nil when nothing was hit
}

// materialInfo describes a material's parameters
func materialInfo(m *material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	hexColor := func(c [3]float64) string {
		return fmt.Sprintf("#%02x%02x%02x", int(c[0]*255), int(c[1]*255), int(c[2]*255))
	}

	switch m.Kind {
	case material.KindLambertian:
		albedo := [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["albedo"] = albedo
		properties["color"] = hexColor(albedo)
	case material.KindMetal:
		albedo := [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["albedo"] = albedo
		properties["color"] = hexColor(albedo)
		properties["fuzzness"] = m.Fuzzness
	case material.KindDielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
	}
	return m.Kind.String(), properties
}

// geometryInfo describes a primitive's shape parameters
func geometryInfo(p *geometry.Primitive) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	if p == nil {
		return "unknown", properties
	}

	switch p.Kind {
	case geometry.ShapeSphere:
		properties["center"] = [3]float64{p.Sphere.Center.X, p.Sphere.Center.Y, p.Sphere.Center.Z}
		properties["radius"] = p.Sphere.Radius
		properties["hollow"] = p.Sphere.Radius < 0
	}
	return p.Kind.String(), properties
}

// inspectPixel casts a ray through the center of pixel (pixelX, pixelY), with
// row 0 at the top, and reports the closest hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	width, height := sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height
	u := (float64(pixelX) + 0.5) / float64(max(width-1, 1))
	v := (float64(height-1-pixelY) + 0.5) / float64(max(height-1, 1))

	// Inspect along the lens center so the answer does not depend on blur
	cameraConfig := sceneObj.CameraConfig
	cameraConfig.Aperture = 0
	ray := renderer.NewCamera(cameraConfig).GetRay(u, v, nil)

	hit, isHit := sceneObj.World.Hit(ray, integrator.ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return InspectResult{}
	}

	// The list does not report which primitive was closest, so find the one
	// that reproduces the hit distance
	result := InspectResult{Hit: true, HitRecord: hit}
	prims := sceneObj.World.Primitives()
	for i := range prims {
		if primHit, ok := prims[i].Hit(ray, integrator.ShadowAcneEpsilon, math.Inf(1)); ok && primHit.T == hit.T {
			result.Primitive = &prims[i]
			break
		}
	}
	return result
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	_, sceneObj, err := parseRenderRequest(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	cfg := sceneObj.SamplingConfig
	if pixelX < 0 || pixelX >= cfg.Width || pixelY < 0 || pixelY >= cfg.Height {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		s.writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := materialInfo(sceneObj.Materials.Get(result.HitRecord.Material))
	geometryType, geometryProps := geometryInfo(result.Primitive)

	rec := result.HitRecord
	s.writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        [3]float64{rec.Point.X, rec.Point.Y, rec.Point.Z},
		Normal:       [3]float64{rec.Normal.X, rec.Normal.Y, rec.Normal.Z},
		Distance:     rec.T,
		FrontFace:    rec.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
