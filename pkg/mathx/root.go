package mathx

import (
	"errors"
	"math"
)

var (
	// ErrNotBracketed is returned when f has the same sign at both ends of
	// the search interval.
	ErrNotBracketed = errors.New("mathx: root is not bracketed")
	// ErrNoConvergence is returned when the iteration limit is reached.
	ErrNoConvergence = errors.New("mathx: root search did not converge")
)

// Brent finds a root of f in [x1, x2] using Brent's method, which combines
// bisection, secant and inverse quadratic interpolation steps. f(x1) and
// f(x2) must differ in sign or be zero. The search stops once the bracket
// is narrower than tol. On ErrNoConvergence the best estimate is still
// returned.
func Brent(f func(float64) float64, x1, x2, tol float64, maxIter int) (float64, error) {
	const eps = 2.220446049250313e-16

	a, b, c := x1, x2, x2
	fa, fb := f(a), f(b)
	if (fa > 0 && fb > 0) || (fa < 0 && fb < 0) {
		return b, ErrNotBracketed
	}

	var d, e float64
	fc := fb
	for iter := 0; iter < maxIter; iter++ {
		if (fb > 0 && fc > 0) || (fb < 0 && fc < 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2*eps*math.Abs(b) + 0.5*tol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// Inverse quadratic interpolation, or secant when a == c.
			var p, q float64
			s := fb / fa
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			min1 := 3*xm*q - math.Abs(tol1*q)
			min2 := math.Abs(e * q)
			if 2*p < math.Min(min1, min2) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
	}
	return b, ErrNoConvergence
}
