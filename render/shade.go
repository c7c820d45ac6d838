package render

import (
	"math"

	"github.com/milk9111/townwalk/ecs/component"
	"github.com/milk9111/townwalk/geom"
	"github.com/milk9111/townwalk/scene"
)

const specularPower = 64

// Shade lights one flat face. n is the world normal facing the viewer and
// toEye points from the face to the camera.
func Shade(mat *component.Material, n, toEye geom.Vec3, lights scene.Lights) geom.Color {
	// hemispheric: sky white, ground black
	hemi := (0.5 + 0.5*n.Dot(lights.HemiDirection)) * lights.HemiIntensity

	toSun := lights.SunDirection.Neg()
	sun := math.Max(0, n.Dot(toSun)) * lights.SunIntensity

	c := mat.Emissive.Add(mat.Diffuse.Scale(hemi + sun))
	if sun > 0 {
		h := toSun.Add(toEye).Normalize()
		spec := math.Pow(math.Max(0, n.Dot(h)), specularPower) * lights.SunIntensity
		c = c.Add(mat.Specular.Scale(spec))
	}
	c.A = mat.Alpha
	return c.Clamp()
}
