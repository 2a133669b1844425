package worhp

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/plugopt/worhpgo/internal/problem"
)

// Individual designates one population member for selection or
// replacement, either by a fixed index or by one of the named policies
// "best", "worst" and "random". The zero value is not valid; use ByIndex,
// ByName or ParseIndividual.
type Individual struct {
	name string
	idx  int
}

// ByIndex designates the member at the fixed index i.
func ByIndex(i int) Individual {
	return Individual{idx: i}
}

// ByName designates a member through a named policy: "best", "worst" or
// "random".
func ByName(name string) (Individual, error) {
	switch name {
	case "best", "worst", "random":
		return Individual{name: name}, nil
	default:
		return Individual{}, &ConfigurationError{
			Check:  "policy",
			Reason: fmt.Sprintf("unknown policy %q, want best, worst or random", name),
		}
	}
}

// ParseIndividual reads an individual from its textual form: a bare
// integer is an index, anything else is a policy name.
func ParseIndividual(s string) (Individual, error) {
	if i, err := strconv.Atoi(s); err == nil {
		if i < 0 {
			return Individual{}, &ConfigurationError{
				Check:  "policy",
				Reason: fmt.Sprintf("index %d is negative", i),
			}
		}
		return ByIndex(i), nil
	}
	return ByName(s)
}

func (in Individual) String() string {
	if in.name != "" {
		return "policy: " + in.name
	}
	return "idx: " + strconv.Itoa(in.idx)
}

// validate checks a fixed index against the population size. Named
// policies are always in range.
func (in Individual) validate(pop *problem.Population, what string) error {
	if in.name == "" && in.idx >= pop.Len() {
		return &ConfigurationError{
			Check:  what,
			Reason: fmt.Sprintf("index %d is out of range for a population of %d", in.idx, pop.Len()),
		}
	}
	return nil
}

// pick resolves the individual to a concrete index in pop. The random
// policy draws from rng, so picking is repeatable under a fixed seed.
func (in Individual) pick(pop *problem.Population, rng *rand.Rand) (int, error) {
	switch in.name {
	case "best":
		return pop.BestIdx(), nil
	case "worst":
		return pop.WorstIdx(), nil
	case "random":
		return rng.Intn(pop.Len()), nil
	default:
		if in.idx >= pop.Len() {
			return 0, &ConfigurationError{
				Check:  "policy",
				Reason: fmt.Sprintf("index %d is out of range for a population of %d", in.idx, pop.Len()),
			}
		}
		return in.idx, nil
	}
}
