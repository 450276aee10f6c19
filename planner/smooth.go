package planner

import (
	"math"

	"gonum.org/v1/gonum/interp"
)

// simplify drops interior points whose incoming and outgoing directions are
// parallel within tol, collapsing straight runs to their endpoints.
func simplify(path Path, tol float64) Path {
	if len(path) <= 2 {
		return path
	}
	out := make(Path, 0, len(path))
	out = append(out, path[0])
	for i := 1; i < len(path)-1; i++ {
		prev := out[len(out)-1]
		cur := path[i]
		next := path[i+1]

		a1 := math.Atan2(cur.Y-prev.Y, cur.X-prev.X)
		a2 := math.Atan2(next.Y-cur.Y, next.X-cur.X)
		diff := math.Atan2(math.Sin(a2-a1), math.Cos(a2-a1))
		if math.Abs(diff) > tol {
			out = append(out, cur)
		}
	}
	out = append(out, path[len(path)-1])
	return out
}

// interpolate resamples the polyline so consecutive points sit at the target
// resolution, subdividing each segment linearly.
func interpolate(path Path, resolution float64) Path {
	if len(path) < 2 {
		return path
	}
	out := make(Path, 0, len(path))
	out = append(out, path[0])
	for i := 1; i < len(path); i++ {
		p1, p2 := path[i-1], path[i]
		dist := math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
		n := int(dist / resolution)
		if n < 1 {
			n = 1
		}
		for j := 1; j <= n; j++ {
			t := float64(j) / float64(n)
			out = append(out, Point{
				X: p1.X + (p2.X-p1.X)*t,
				Y: p1.Y + (p2.Y-p1.Y)*t,
			})
		}
	}
	return out
}

// smooth fits a parametric cubic through the points and resamples uniformly
// in parameter space at five times the input density. The smoothing strength
// first relaxes interior points toward their neighbors, standing in for the
// smoothing factor of a smoothing spline. Fewer than 3 points, or zero
// strength, returns the input unchanged.
func smooth(path Path, strength float64) Path {
	if len(path) < 3 || strength <= 0 {
		return path
	}

	relaxed := relax(path, strength)

	// Chord-length parametrization, normalized to [0, 1]. Degenerate
	// zero-length chords get a tiny positive step so the knots stay
	// strictly increasing.
	u := make([]float64, len(relaxed))
	for i := 1; i < len(relaxed); i++ {
		d := math.Hypot(relaxed[i].X-relaxed[i-1].X, relaxed[i].Y-relaxed[i-1].Y)
		if d < epsDenom {
			d = epsDenom
		}
		u[i] = u[i-1] + d
	}
	total := u[len(u)-1]
	for i := range u {
		u[i] /= total
	}

	xs := make([]float64, len(relaxed))
	ys := make([]float64, len(relaxed))
	for i, pt := range relaxed {
		xs[i] = pt.X
		ys[i] = pt.Y
	}

	var cx, cy interp.NaturalCubic
	if err := cx.Fit(u, xs); err != nil {
		return relaxed
	}
	if err := cy.Fit(u, ys); err != nil {
		return relaxed
	}

	n := len(relaxed) * 5
	out := make(Path, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		out[i] = Point{X: cx.Predict(t), Y: cy.Predict(t)}
	}
	return out
}

// relax pulls each interior point toward the midpoint of its neighbors,
// endpoints pinned. Two passes; strength is the blend weight per pass.
func relax(path Path, strength float64) Path {
	if strength > 1 {
		strength = 1
	}
	out := make(Path, len(path))
	copy(out, path)
	for pass := 0; pass < 2; pass++ {
		for i := 1; i < len(out)-1; i++ {
			mx := (out[i-1].X + out[i+1].X) / 2
			my := (out[i-1].Y + out[i+1].Y) / 2
			out[i].X += strength * (mx - out[i].X)
			out[i].Y += strength * (my - out[i].Y)
		}
	}
	return out
}
