package tracer

import (
	"math"
	"math/rand/v2"
)

type material struct {
	albedo    vec3
	emission  vec3
	metallic  bool
	roughness float64
}

type sphere struct {
	center vec3
	radius float64
	mat    material
}

// hit returns the nearest intersection distance in (tMin, tMax), or false.
func (s *sphere) hit(r ray, tMin, tMax float64) (float64, bool) {
	oc := r.origin.sub(s.center)
	b := oc.dot(r.dir)
	c := oc.dot(oc) - s.radius*s.radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t <= tMin || t >= tMax {
		t = -b + sq
		if t <= tMin || t >= tMax {
			return 0, false
		}
	}
	return t, true
}

// defaultWorld is the demo scene: five spheres around a small gold one on a
// large ground sphere, lit by an emissive sphere and the sky.
func defaultWorld() []sphere {
	orange := material{albedo: vec3{0.4, 0.1, 0.05}}
	gray := material{albedo: vec3{0.2, 0.2, 0.2}}
	black := material{albedo: vec3{0.02, 0.02, 0.02}, metallic: true, roughness: 0.1}
	white := material{albedo: vec3{0.4, 0.4, 0.4}}
	gold := material{albedo: vec3{0.9, 0.4, 0.1}, metallic: true, roughness: 0.1}
	chrome := material{albedo: vec3{0.4, 0.4, 0.4}, metallic: true, roughness: 0.3}
	emissive := material{albedo: vec3{0, 0, 0}, emission: vec3{50, 20, 5}}

	return []sphere{
		{center: vec3{0, 1, 0}, radius: 1, mat: orange},
		{center: vec3{2, 1, 0}, radius: 1, mat: chrome},
		{center: vec3{-2, 1, 0}, radius: 1, mat: white},
		{center: vec3{0, 1, 2}, radius: 1, mat: black},
		{center: vec3{0, 1, -2}, radius: 1, mat: orange},
		{center: vec3{0, 0.25, 0}, radius: 0.25, mat: gold},
		{center: vec3{0, -100, 0}, radius: 100, mat: gray},
		{center: vec3{0, 2.5, 0}, radius: 0.5, mat: emissive},
	}
}

// camera is a thin-lens pinhole looking from origin at focus.
type camera struct {
	origin     vec3
	lowerLeft  vec3
	horizontal vec3
	vertical   vec3
	u, v       vec3
	lensRadius float64
}

// Field of view above this is not representable by a planar projection.
const maxProjectionFOV = 170.0

func newCamera(origin, focus vec3, fovDeg, aspect, aperture float64) camera {
	fov := math.Min(fovDeg, maxProjectionFOV)
	theta := fov * math.Pi / 180
	halfH := math.Tan(theta / 2)
	halfW := aspect * halfH

	focusDist := focus.sub(origin).length()
	w := origin.sub(focus).normalize()
	u := vec3{0, 1, 0}.cross(w).normalize()
	v := w.cross(u)

	return camera{
		origin: origin,
		lowerLeft: origin.
			sub(u.scale(halfW * focusDist)).
			sub(v.scale(halfH * focusDist)).
			sub(w.scale(focusDist)),
		horizontal: u.scale(2 * halfW * focusDist),
		vertical:   v.scale(2 * halfH * focusDist),
		u:          u,
		v:          v,
		lensRadius: aperture / 2,
	}
}

func (c camera) ray(s, t float64, rng *rand.Rand) ray {
	origin := c.origin
	if c.lensRadius > 0 {
		dx, dy := sampleDisk(rng)
		origin = origin.add(c.u.scale(dx * c.lensRadius)).add(c.v.scale(dy * c.lensRadius))
	}
	target := c.lowerLeft.add(c.horizontal.scale(s)).add(c.vertical.scale(t))
	return ray{origin: origin, dir: target.sub(origin).normalize()}
}

func sampleDisk(rng *rand.Rand) (float64, float64) {
	r := math.Sqrt(rng.Float64())
	a := 2 * math.Pi * rng.Float64()
	return r * math.Cos(a), r * math.Sin(a)
}

func sampleSphere(rng *rand.Rand) vec3 {
	z := 2*rng.Float64() - 1
	a := 2 * math.Pi * rng.Float64()
	r := math.Sqrt(1 - z*z)
	return vec3{r * math.Cos(a), r * math.Sin(a), z}
}

// sky returns the background radiance for direction d.
func sky(d vec3, intensity float64) vec3 {
	t := 0.5 * (d.y + 1)
	horizon := vec3{1, 1, 1}
	zenith := vec3{0.5, 0.7, 1}
	return horizon.scale(1 - t).add(zenith.scale(t)).scale(intensity)
}

// trace follows r through the world for at most depth bounces.
func trace(world []sphere, r ray, depth int, skyIntensity float64, rng *rand.Rand) vec3 {
	radiance := vec3{}
	throughput := vec3{1, 1, 1}

	for bounce := 0; bounce < depth; bounce++ {
		var hit *sphere
		nearest := math.MaxFloat64
		for i := range world {
			if t, ok := world[i].hit(r, 1e-4, nearest); ok {
				nearest = t
				hit = &world[i]
			}
		}
		if hit == nil {
			return radiance.add(throughput.mul(sky(r.dir, skyIntensity)))
		}

		p := r.at(nearest)
		n := p.sub(hit.center).scale(1 / hit.radius)
		radiance = radiance.add(throughput.mul(hit.mat.emission))

		var dir vec3
		if hit.mat.metallic {
			dir = reflect(r.dir, n).add(sampleSphere(rng).scale(hit.mat.roughness)).normalize()
			if dir.dot(n) <= 0 {
				return radiance
			}
		} else {
			dir = n.add(sampleSphere(rng)).normalize()
		}
		throughput = throughput.mul(hit.mat.albedo)
		r = ray{origin: p, dir: dir}
	}
	return radiance
}
