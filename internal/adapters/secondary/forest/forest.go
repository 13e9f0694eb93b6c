// Package forest implements a bagged CART random forest classifier with the
// usual library defaults: gini impurity, sqrt(features) candidates per split,
// bootstrap sampling, fully grown trees.
package forest

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
)

// FormatName tags serialized forests.
const FormatName = "neurotrack-forest/v1"

type Options struct {
	Estimators      int
	MaxDepth        int // 0 = unlimited
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 = sqrt(features)
	Workers         int // 0 = GOMAXPROCS
	Seed            int64
}

// DefaultOptions mirrors the common defaults of a 100-tree forest.
func DefaultOptions() Options {
	return Options{
		Estimators:      100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
}

type Learner struct {
	opts Options
}

func NewLearner(opts Options) *Learner {
	if opts.MinSamplesSplit < 2 {
		opts.MinSamplesSplit = 2
	}
	if opts.MinSamplesLeaf < 1 {
		opts.MinSamplesLeaf = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Learner{opts: opts}
}

func (l *Learner) Format() string {
	return FormatName
}

func (l *Learner) Fit(ctx context.Context, x [][]float64, y []int, featureNames []string) (ports.Classifier, error) {
	if l.opts.Estimators <= 0 {
		return nil, domain.ErrInvalidEstimators
	}
	classes, err := domain.CheckTrainingSet(x, y, featureNames)
	if err != nil {
		return nil, err
	}
	nFeatures := len(x[0])

	mtry := l.opts.MaxFeatures
	if mtry <= 0 || mtry > nFeatures {
		mtry = int(math.Max(1, math.Floor(math.Sqrt(float64(nFeatures)))))
	}

	seed := l.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	master := rand.New(rand.NewSource(seed))
	seeds := make([]int64, l.opts.Estimators)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	trees := make([]Tree, l.opts.Estimators)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Workers)
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b := &builder{
				x:        x,
				y:        y,
				classes:  classes,
				mtry:     mtry,
				maxDepth: l.opts.MaxDepth,
				minSplit: l.opts.MinSamplesSplit,
				minLeaf:  l.opts.MinSamplesLeaf,
				rng:      rand.New(rand.NewSource(seeds[i])),
			}
			trees[i] = b.build()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fit trees: %w", err)
	}

	names := make([]string, len(featureNames))
	copy(names, featureNames)

	return &Model{
		Format:   FormatName,
		Features: names,
		Classes:  classes,
		Trees:    trees,
	}, nil
}

func (l *Learner) Load(data []byte) (ports.Classifier, error) {
	var m Model
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode((*encodedModel)(&m)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnknownFormat, err)
	}
	if m.Format != FormatName {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFormat, m.Format)
	}
	if len(m.Trees) == 0 {
		return nil, domain.ErrModelNotFitted
	}
	return &m, nil
}

// Node is a split when Feature >= 0 and a leaf otherwise.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Proba     []float64
}

type Tree struct {
	Nodes []Node
}

func (t *Tree) leaf(row []float64) []float64 {
	i := 0
	for t.Nodes[i].Feature >= 0 {
		n := t.Nodes[i]
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Proba
}

// Model is a fitted forest. Exported fields are the serialized form.
type Model struct {
	Format   string
	Features []string
	Classes  int
	Trees    []Tree
}

var _ ports.Classifier = (*Model)(nil)
var _ ports.Learner = (*Learner)(nil)

func (m *Model) FeatureNames() []string {
	return m.Features
}

func (m *Model) PredictProba(x [][]float64) ([][]float64, error) {
	if len(m.Trees) == 0 {
		return nil, domain.ErrModelNotFitted
	}
	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != len(m.Features) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", domain.ErrFeatureMismatch, i, len(row), len(m.Features))
		}
		p := make([]float64, m.Classes)
		for t := range m.Trees {
			for c, v := range m.Trees[t].leaf(row) {
				p[c] += v
			}
		}
		for c := range p {
			p[c] /= float64(len(m.Trees))
		}
		out[i] = p
	}
	return out, nil
}

func (m *Model) Predict(x [][]float64) ([]int, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(proba))
	for i, p := range proba {
		best := 0
		for c := 1; c < len(p); c++ {
			if p[c] > p[best] {
				best = c
			}
		}
		out[i] = best
	}
	return out, nil
}

// encodedModel drops Model's methods so gob does not re-enter MarshalBinary.
type encodedModel Model

func (m *Model) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode((*encodedModel)(m)); err != nil {
		return nil, fmt.Errorf("encode forest: %w", err)
	}
	return buf.Bytes(), nil
}
