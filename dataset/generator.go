package dataset

import (
	"fmt"
	mrand "math/rand"
	"slices"
)

// Spec identifies one dataset: its value distribution, element
// count, and generation seed.
type Spec struct {
	Distribution string
	N            int
	Seed         int64
}

// Filename returns the canonical file name for the spec,
// e.g. random_n100000_seed1.bin. InferDistribution inverts it.
func (s Spec) Filename() string {
	return fmt.Sprintf("%s_n%d_seed%d.bin", s.Distribution, s.N, s.Seed)
}

// Distributions returns the supported distribution names.
func Distributions() []string {
	return []string{"random", "sorted", "reversed", "dups", "nearly_sorted"}
}

// Generator produces deterministic datasets from a Spec.
type Generator struct {
	spec Spec
	rng  *mrand.Rand
}

// NewGenerator creates a Generator for the given Spec.
func NewGenerator(spec Spec) *Generator {
	return &Generator{
		spec: spec,
		rng:  mrand.New(mrand.NewSource(spec.Seed)),
	}
}

// Generate builds the dataset values for the Generator's Spec.
func (g *Generator) Generate() ([]int32, error) {
	switch g.spec.Distribution {
	case "random":
		return g.random(), nil

	case "sorted":
		return g.sorted(), nil

	case "reversed":
		values := g.sorted()
		slices.Reverse(values)

		return values, nil

	case "dups":
		// Many duplicates: values drawn from a small range.
		const distinct = 128

		values := make([]int32, g.spec.N)
		for i := range values {
			values[i] = int32(g.rng.Intn(distinct))
		}

		return values, nil

	case "nearly_sorted":
		// Sorted order disturbed by n/100 random swaps.
		values := g.sorted()

		swaps := g.spec.N / 100
		if g.spec.N <= 1 {
			swaps = 0
		}

		for s := 0; s < swaps; s++ {
			i := g.rng.Intn(g.spec.N)
			j := g.rng.Intn(g.spec.N)
			values[i], values[j] = values[j], values[i]
		}

		return values, nil

	default:
		return nil, fmt.Errorf(
			"unknown distribution %q", g.spec.Distribution,
		)
	}
}

func (g *Generator) random() []int32 {
	values := make([]int32, g.spec.N)
	for i := range values {
		values[i] = int32(g.rng.Uint32())
	}

	return values
}

func (g *Generator) sorted() []int32 {
	values := g.random()
	slices.Sort(values)

	return values
}
