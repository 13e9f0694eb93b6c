package forest

import (
	"math"
	"math/rand"
	"sort"
)

type builder struct {
	x        [][]float64
	y        []int
	classes  int
	mtry     int
	maxDepth int
	minSplit int
	minLeaf  int
	rng      *rand.Rand
	nodes    []Node
}

type sample struct {
	v float64
	c int
}

// build grows one tree on a bootstrap resample of the rows.
func (b *builder) build() Tree {
	n := len(b.x)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = b.rng.Intn(n)
	}
	b.grow(idx, 0)
	return Tree{Nodes: b.nodes}
}

func (b *builder) grow(idx []int, depth int) int {
	counts := make([]int, b.classes)
	for _, i := range idx {
		counts[b.y[i]]++
	}

	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: -1})

	if b.stop(idx, counts, depth) {
		b.nodes[id].Proba = proba(counts, len(idx))
		return id
	}

	feature, threshold, ok := b.bestSplit(idx, counts)
	if !ok {
		b.nodes[id].Proba = proba(counts, len(idx))
		return id
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[id].Feature = feature
	b.nodes[id].Threshold = threshold
	b.nodes[id].Left = l
	b.nodes[id].Right = r
	return id
}

func (b *builder) stop(idx []int, counts []int, depth int) bool {
	if len(idx) < b.minSplit {
		return true
	}
	if b.maxDepth > 0 && depth >= b.maxDepth {
		return true
	}
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

// bestSplit searches mtry random features for the threshold with the lowest
// weighted gini impurity.
func (b *builder) bestSplit(idx []int, counts []int) (int, float64, bool) {
	nFeatures := len(b.x[0])
	candidates := b.rng.Perm(nFeatures)[:b.mtry]

	best := math.Inf(1)
	bestFeature, bestThreshold, found := -1, 0.0, false

	samples := make([]sample, len(idx))
	left := make([]int, b.classes)
	right := make([]int, b.classes)

	for _, f := range candidates {
		for k, i := range idx {
			samples[k] = sample{v: b.x[i][f], c: b.y[i]}
		}
		sort.Slice(samples, func(a, c int) bool { return samples[a].v < samples[c].v })

		for c := range left {
			left[c] = 0
			right[c] = counts[c]
		}

		for k := 0; k < len(samples)-1; k++ {
			left[samples[k].c]++
			right[samples[k].c]--
			if samples[k].v == samples[k+1].v {
				continue
			}
			nl := k + 1
			nr := len(samples) - nl
			if nl < b.minLeaf || nr < b.minLeaf {
				continue
			}
			score := float64(nl)*gini(left, nl) + float64(nr)*gini(right, nr)
			if score < best {
				best = score
				bestFeature = f
				bestThreshold = samples[k].v + (samples[k+1].v-samples[k].v)/2
				if bestThreshold >= samples[k+1].v {
					bestThreshold = samples[k].v
				}
				found = true
			}
		}
	}

	return bestFeature, bestThreshold, found
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		sum += p * p
	}
	return 1 - sum
}

func proba(counts []int, n int) []float64 {
	p := make([]float64, len(counts))
	if n == 0 {
		return p
	}
	for c, v := range counts {
		p[c] = float64(v) / float64(n)
	}
	return p
}
