package problem

import "math"

// Violations inspects a fitness vector laid out as [objective, eq rows...,
// ineq rows...] and returns the number of violated constraint rows together
// with the L2 norm of the violations. An equality row c violates by
// max(|c|-tol, 0); an inequality row by max(c-tol, 0). Rows beyond the
// tolerance slice are treated as zero-tolerance.
func Violations(f []float64, nec int, tol []float64) (int, float64) {
	violated := 0
	var sq float64
	for i, c := range f[1:] {
		var t float64
		if i < len(tol) {
			t = tol[i]
		}
		var err float64
		if i < nec {
			err = math.Abs(c) - t
		} else {
			err = c - t
		}
		if err > 0 {
			violated++
			sq += err * err
		}
	}
	return violated, math.Sqrt(sq)
}

// Compare reports whether fitness f1 beats fitness f2 under feasibility-aware
// dominance: a feasible vector beats an infeasible one; two feasible vectors
// compare on the objective; two infeasible vectors compare on the number of
// violated rows, then on the violation norm. Both vectors must share the
// [objective, constraints...] layout.
func Compare(f1, f2 []float64, nec int, tol []float64) bool {
	v1, l1 := Violations(f1, nec, tol)
	v2, l2 := Violations(f2, nec, tol)

	if v1 == 0 {
		if v2 == 0 {
			return f1[0] < f2[0]
		}
		return true
	}
	if v1 == v2 {
		return l1 < l2
	}
	return v1 < v2
}
