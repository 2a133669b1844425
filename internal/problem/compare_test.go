package problem

import (
	"math"
	"testing"
)

func TestViolations(t *testing.T) {
	tests := []struct {
		name  string
		f     []float64
		nec   int
		tol   []float64
		count int
		norm  float64
	}{
		{
			name:  "no constraints",
			f:     []float64{3.5},
			nec:   0,
			count: 0,
			norm:  0,
		},
		{
			name:  "satisfied inequality",
			f:     []float64{1, -2},
			nec:   0,
			tol:   []float64{0},
			count: 0,
			norm:  0,
		},
		{
			name:  "violated inequality",
			f:     []float64{1, 3},
			nec:   0,
			tol:   []float64{0},
			count: 1,
			norm:  3,
		},
		{
			name:  "equality violated on both sides",
			f:     []float64{1, -4, 3},
			nec:   2,
			tol:   []float64{0, 0},
			count: 2,
			norm:  5,
		},
		{
			name:  "tolerance absorbs violation",
			f:     []float64{1, 0.5, 0.5},
			nec:   1,
			tol:   []float64{1, 1},
			count: 0,
			norm:  0,
		},
		{
			name:  "tolerance reduces violation",
			f:     []float64{1, 4},
			nec:   0,
			tol:   []float64{1},
			count: 1,
			norm:  3,
		},
		{
			name:  "negative equality still violates",
			f:     []float64{1, -3, -5},
			nec:   1,
			tol:   []float64{0, 0},
			count: 1,
			norm:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, norm := Violations(tt.f, tt.nec, tt.tol)
			if count != tt.count {
				t.Errorf("count = %d, want %d", count, tt.count)
			}
			if math.Abs(norm-tt.norm) > 1e-12 {
				t.Errorf("norm = %g, want %g", norm, tt.norm)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tol := []float64{0}

	tests := []struct {
		name string
		f1   []float64
		f2   []float64
		want bool
	}{
		{
			name: "both feasible lower objective wins",
			f1:   []float64{1, -1},
			f2:   []float64{2, -1},
			want: true,
		},
		{
			name: "both feasible higher objective loses",
			f1:   []float64{2, -1},
			f2:   []float64{1, -1},
			want: false,
		},
		{
			name: "feasible beats infeasible regardless of objective",
			f1:   []float64{100, -1},
			f2:   []float64{1, 5},
			want: true,
		},
		{
			name: "infeasible loses to feasible",
			f1:   []float64{1, 5},
			f2:   []float64{100, -1},
			want: false,
		},
		{
			name: "both infeasible smaller norm wins",
			f1:   []float64{5, 2},
			f2:   []float64{1, 3},
			want: true,
		},
		{
			name: "equal vectors do not dominate",
			f1:   []float64{1, -1},
			f2:   []float64{1, -1},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.f1, tt.f2, 0, tol); got != tt.want {
				t.Errorf("Compare = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompareFewerViolatedRowsWins(t *testing.T) {
	// Two inequality rows: f1 violates one badly, f2 violates both mildly.
	tol := []float64{0, 0}

	f1 := []float64{1, 9, -1}
	f2 := []float64{1, 0.1, 0.1}

	if !Compare(f1, f2, 0, tol) {
		t.Error("Expected one violated row to beat two violated rows")
	}
	if Compare(f2, f1, 0, tol) {
		t.Error("Expected two violated rows to lose against one")
	}
}
