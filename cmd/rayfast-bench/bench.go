package main

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Project-Cepi/Rayfast/area"
	"github.com/Project-Cepi/Rayfast/featureflag"
	"github.com/Project-Cepi/Rayfast/geometry"
	"github.com/Project-Cepi/Rayfast/grid"
	"github.com/Project-Cepi/Rayfast/models"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gonum.org/v1/gonum/stat"
)

const (
	stageEntities = "entities"
	stageWrappers = "wrappers"
	stageGrid     = "grid"
)

var (
	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rayfast_bench_stage_duration_seconds",
		Help:    "The duration of a benchmark stage run.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16),
	}, []string{"stage"})

	stageResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rayfast_bench_stage_results_total",
		Help: "The number of hits or cells produced by a benchmark stage.",
	}, []string{"stage"})
)

// Benchmark runs intersection and grid traversal workloads against a set of
// entities.
type Benchmark struct {
	// The number of entities to intersect.
	Entities int

	// The size of the entity bounding boxes.
	EntitySize geometry.Point

	// The number of random rays cast against the entities per run.
	Rays int

	// The length walked by the grid iterator per run.
	GridLength float64

	// The number of times each stage runs.
	Runs int

	Seed         uint64
	FeatureFlags featureflag.FeatureFlag

	rand     *rand.Rand
	store    models.EntityStore
	entities area.Area
	wrappers area.Area
}

// Report is the outcome of a benchmark.
type Report struct {
	RunID    string        `json:"run_id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Stages   []StageReport `json:"stages"`
}

type StageReport struct {
	Name         string  `json:"name"`
	Runs         int     `json:"runs"`
	Results      int     `json:"results"`
	MeanMillis   float64 `json:"mean_ms"`
	StdDevMillis float64 `json:"stddev_ms"`
}

// Setup creates the entities and the combined areas the stages intersect.
func (b *Benchmark) Setup(c *area.Converter[area.Area]) error {
	b.rand = rand.New(rand.NewPCG(b.Seed, b.Seed))

	wrappers := make([]area.Area, 0, b.Entities)
	for i := 0; i < b.Entities; i++ {
		e := b.store.Add(
			b.EntitySize.X(),
			b.EntitySize.Y(),
			b.EntitySize.Z(),
			b.randomPoint(),
		)

		wrappers = append(wrappers, area.Wrap(
			e.BoundingBox(),
			models.BoundingBox.Min,
			models.BoundingBox.Max,
		))
	}

	entities, err := b.store.Areas(c)
	if err != nil {
		return errors.New("converting entities failed").Wrap(err)
	}

	b.entities = area.Combine(entities...)
	b.wrappers = area.Combine(wrappers...)
	return nil
}

// Run runs the stages that are not disabled by feature flags. Setup must be
// called before.
func (b *Benchmark) Run(ctx context.Context) (Report, error) {
	report := Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}

	type stage struct {
		name string
		skip featureflag.Flag
		run  func() (int, error)
	}

	stages := []stage{
		{
			name: stageGrid,
			skip: featureflag.FlagSkipGridBenchmark,
			run:  b.walkGrid,
		},
		{
			name: stageEntities,
			skip: featureflag.FlagSkipEntityBenchmark,
			run: func() (int, error) {
				return b.castRays(b.entities), nil
			},
		},
		{
			name: stageWrappers,
			skip: featureflag.FlagSkipWrapperBenchmark,
			run: func() (int, error) {
				return b.castRays(b.wrappers), nil
			},
		},
	}

	for _, s := range stages {
		var skipped bool
		b.FeatureFlags.IfSet(s.skip, func() {
			skipped = true
		})
		if skipped {
			logs.WithTag("run_id", report.RunID).
				WithTag("stage", s.name).
				Info("benchmark stage skipped")
			continue
		}

		r, err := b.runStage(ctx, s.name, s.run)
		if err != nil {
			return report, errors.New("running benchmark stage failed").
				WithTag("run_id", report.RunID).
				WithTag("stage", s.name).
				Wrap(err)
		}

		logs.WithTag("run_id", report.RunID).
			WithTag("stage", r.Name).
			WithTag("runs", r.Runs).
			WithTag("results", r.Results).
			WithTag("mean_ms", r.MeanMillis).
			WithTag("stddev_ms", r.StdDevMillis).
			Info("benchmark stage finished")
		report.Stages = append(report.Stages, r)
	}

	report.Duration = time.Since(report.Started)
	return report, nil
}

func (b *Benchmark) runStage(ctx context.Context, name string, run func() (int, error)) (StageReport, error) {
	r := StageReport{Name: name}
	durations := make([]float64, 0, b.Runs)

	for i := 0; i < b.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return r, err
		}

		start := time.Now()
		n, err := run()
		if err != nil {
			return r, err
		}
		d := time.Since(start)

		stageDuration.WithLabelValues(name).Observe(d.Seconds())
		stageResults.WithLabelValues(name).Add(float64(n))

		durations = append(durations, float64(d)/float64(time.Millisecond))
		r.Results += n
		r.Runs++
	}

	if len(durations) > 1 {
		r.MeanMillis, r.StdDevMillis = stat.MeanStdDev(durations, nil)
	} else if len(durations) == 1 {
		r.MeanMillis = durations[0]
	}
	return r, nil
}

// castRays casts random rays against the given area and returns the number
// of hits.
func (b *Benchmark) castRays(a area.Area) int {
	var hits int
	for i := 0; i < b.Rays; i++ {
		if area.Intersects(a, b.randomPoint(), b.randomPoint()) {
			hits++
		}
	}
	return hits
}

// walkGrid walks the unit cells crossed by a random ray and returns their
// count.
func (b *Benchmark) walkGrid() (int, error) {
	opts := []grid.Option{
		grid.WithMaxLength(b.GridLength),
	}
	b.FeatureFlags.IfSet(featureflag.FlagExactGridPositions, func() {
		opts = append(opts, grid.WithExactPositions())
	})

	it, err := grid.NewIterator(b.randomPoint(), b.randomDirection(), opts...)
	if err != nil {
		return 0, err
	}

	var cells int
	for range it.All() {
		cells++
	}
	return cells, nil
}

func (b *Benchmark) randomPoint() geometry.Point {
	return geometry.GeneratePoint(b.rand.Float64)
}

func (b *Benchmark) randomDirection() geometry.Point {
	for {
		if dir := b.randomPoint(); !dir.IsZero() {
			return dir
		}
	}
}

// reportStore keeps the last report for the admin server.
type reportStore struct {
	mutex  sync.RWMutex
	report *Report
}

func (s *reportStore) Set(r Report) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.report = &r
}

func (s *reportStore) Get() any {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.report == nil {
		return nil
	}
	return *s.report
}
