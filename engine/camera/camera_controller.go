package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// maxElevation keeps the eye off the poles where the view basis degenerates.
const maxElevation = float32(math.Pi/2 - 0.01)

// orbitController holds the spherical orbit state around a target point.
// Polar coordinates are (radius, azimuth, elevation): azimuth rotates around +Y starting at +Z,
// elevation tilts toward +Y. It is not synchronized; the owning camera holds the lock.
type orbitController struct {
	target    mgl32.Vec3
	radius    float32
	azimuth   float32
	elevation float32

	minRadius float32
	maxRadius float32
}

// position returns the eye position for the current spherical coordinates.
func (oc *orbitController) position() mgl32.Vec3 {
	cosElev := float32(math.Cos(float64(oc.elevation)))
	sinElev := float32(math.Sin(float64(oc.elevation)))
	cosAzim := float32(math.Cos(float64(oc.azimuth)))
	sinAzim := float32(math.Sin(float64(oc.azimuth)))

	return oc.target.Add(mgl32.Vec3{
		oc.radius * cosElev * sinAzim,
		oc.radius * sinElev,
		oc.radius * cosElev * cosAzim,
	})
}

func (oc *orbitController) polar() mgl32.Vec3 {
	return mgl32.Vec3{oc.radius, oc.azimuth, oc.elevation}
}

// setPolar replaces the spherical coordinates. The radius is clamped to the zoom limits
// when they are set, and the elevation to ±maxElevation.
func (oc *orbitController) setPolar(polar mgl32.Vec3) {
	oc.radius = oc.clampRadius(polar[0])
	oc.azimuth = polar[1]
	oc.elevation = mgl32.Clamp(polar[2], -maxElevation, maxElevation)
}

// orbit rotates the eye around the target.
func (oc *orbitController) orbit(dAzimuth, dElevation float32) {
	oc.azimuth += dAzimuth
	oc.elevation = mgl32.Clamp(oc.elevation+dElevation, -maxElevation, maxElevation)
}

// zoom moves the eye toward the target for positive delta.
func (oc *orbitController) zoom(delta float32) {
	oc.radius = oc.clampRadius(oc.radius - delta)
}

// pan translates target and eye together along the view's right and up axes.
func (oc *orbitController) pan(right, up float32) {
	backward := oc.position().Sub(oc.target)
	if backward.Len() < 1e-8 {
		return
	}
	backward = backward.Normalize()
	rightAxis := mgl32.Vec3{0, 1, 0}.Cross(backward)
	if rightAxis.Len() < 1e-8 {
		return
	}
	rightAxis = rightAxis.Normalize()
	upAxis := backward.Cross(rightAxis)

	oc.target = oc.target.Add(rightAxis.Mul(right)).Add(upAxis.Mul(up))
}

func (oc *orbitController) clampRadius(r float32) float32 {
	if oc.maxRadius > oc.minRadius {
		return mgl32.Clamp(r, oc.minRadius, oc.maxRadius)
	}
	return r
}
