package worhp

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/plugopt/worhpgo/internal/problem"
)

func cornerPop(t *testing.T, xs ...[]float64) *problem.Population {
	t.Helper()
	prob, err := problem.ByName("corner")
	if err != nil {
		t.Fatalf("ByName(corner): %v", err)
	}
	pop := problem.EmptyPopulation(prob)
	for _, x := range xs {
		pop.Push(x)
	}
	return pop
}

func TestByNameRejectsUnknownPolicy(t *testing.T) {
	_, err := ByName("median")
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("ByName(median) error = %v, want *ConfigurationError", err)
	}
}

func TestParseIndividual(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "best", want: "policy: best"},
		{in: "worst", want: "policy: worst"},
		{in: "random", want: "policy: random"},
		{in: "2", want: "idx: 2"},
		{in: "-1", wantErr: true},
		{in: "median", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			in, err := ParseIndividual(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseIndividual(%q): expected an error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIndividual(%q): %v", tt.in, err)
			}
			if got := in.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPickNamedPolicies(t *testing.T) {
	// Index 1 is the feasible member with the lowest objective, index 2 is
	// infeasible and loses against everything.
	pop := cornerPop(t, []float64{2, 2}, []float64{1, 1}, []float64{8, 8})
	rng := rand.New(rand.NewSource(1))

	best, err := ByName("best")
	if err != nil {
		t.Fatalf("ByName(best): %v", err)
	}
	if got, err := best.pick(pop, rng); err != nil || got != 1 {
		t.Errorf("best pick = %d, %v, want 1", got, err)
	}

	worst, err := ByName("worst")
	if err != nil {
		t.Fatalf("ByName(worst): %v", err)
	}
	if got, err := worst.pick(pop, rng); err != nil || got != 2 {
		t.Errorf("worst pick = %d, %v, want 2", got, err)
	}
}

func TestPickRandomIsSeededAndInRange(t *testing.T) {
	pop := cornerPop(t, []float64{0, 0}, []float64{1, 0}, []float64{0, 1})
	random, err := ByName("random")
	if err != nil {
		t.Fatalf("ByName(random): %v", err)
	}
	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		ia, err := random.pick(pop, a)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		ib, _ := random.pick(pop, b)
		if ia != ib {
			t.Fatalf("draw %d differs under identical seeds: %d vs %d", i, ia, ib)
		}
		if ia < 0 || ia >= pop.Len() {
			t.Fatalf("draw %d out of range: %d", i, ia)
		}
	}
}

func TestPickFixedIndex(t *testing.T) {
	pop := cornerPop(t, []float64{0, 0}, []float64{1, 0})
	rng := rand.New(rand.NewSource(1))
	if got, err := ByIndex(1).pick(pop, rng); err != nil || got != 1 {
		t.Errorf("ByIndex(1) pick = %d, %v, want 1", got, err)
	}
	if _, err := ByIndex(5).pick(pop, rng); err == nil {
		t.Error("ByIndex(5) on a population of 2: expected an error")
	}
}

func TestValidateIndexAgainstPopulation(t *testing.T) {
	pop := cornerPop(t, []float64{0, 0})
	if err := ByIndex(0).validate(pop, "selection"); err != nil {
		t.Errorf("ByIndex(0).validate: %v", err)
	}
	err := ByIndex(3).validate(pop, "replacement")
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("ByIndex(3).validate error = %v, want *ConfigurationError", err)
	}
	if cerr.Check != "replacement" {
		t.Errorf("Check = %q, want %q", cerr.Check, "replacement")
	}
}
