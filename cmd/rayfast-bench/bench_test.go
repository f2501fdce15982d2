package main

import (
	"context"
	"testing"

	"github.com/Project-Cepi/Rayfast/area"
	"github.com/Project-Cepi/Rayfast/featureflag"
	"github.com/Project-Cepi/Rayfast/geometry"
	"github.com/Project-Cepi/Rayfast/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newTestBenchmark(t *testing.T, flags ...string) *Benchmark {
	c := area.NewConverter[area.Area]()
	models.RegisterConverters(c)

	b := &Benchmark{
		Entities:     10,
		EntitySize:   geometry.Point{2, 2, 2},
		Rays:         100,
		GridLength:   50,
		Runs:         3,
		Seed:         42,
		FeatureFlags: featureflag.New(flags),
	}
	require.NoError(t, b.Setup(c))
	return b
}

func TestBenchmarkSetup(t *testing.T) {
	b := newTestBenchmark(t)
	require.Equal(t, 10, b.store.Len())
	require.Equal(t, 10, b.entities.(*area.Combined).Len())
	require.Equal(t, 10, b.wrappers.(*area.Combined).Len())
}

func TestBenchmarkSetupWithoutConverter(t *testing.T) {
	b := &Benchmark{Entities: 1, EntitySize: geometry.Point{1, 1, 1}}
	require.Error(t, b.Setup(area.NewConverter[area.Area]()))
}

func TestBenchmarkRun(t *testing.T) {
	b := newTestBenchmark(t)

	grid := testutil.ToFloat64(stageResults.WithLabelValues(stageGrid))

	report, err := b.Run(context.Background())
	require.NoError(t, err)

	_, err = uuid.Parse(report.RunID)
	require.NoError(t, err)
	require.Len(t, report.Stages, 3)

	names := make([]string, 0, len(report.Stages))
	for _, s := range report.Stages {
		names = append(names, s.Name)
		require.Equal(t, 3, s.Runs)
		require.GreaterOrEqual(t, s.MeanMillis, 0.0)
		require.GreaterOrEqual(t, s.StdDevMillis, 0.0)
	}
	require.Equal(t, []string{stageGrid, stageEntities, stageWrappers}, names)

	// Every random ray starts inside the unit cube, which every entity covers.
	require.Equal(t, 300, report.Stages[1].Results)
	require.Equal(t, 300, report.Stages[2].Results)

	require.Positive(t, report.Stages[0].Results)
	require.Equal(t, grid+float64(report.Stages[0].Results), testutil.ToFloat64(stageResults.WithLabelValues(stageGrid)))
}

func TestBenchmarkRunSkipsStages(t *testing.T) {
	b := newTestBenchmark(t,
		string(featureflag.FlagSkipGridBenchmark),
		string(featureflag.FlagSkipWrapperBenchmark),
	)

	report, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Stages, 1)
	require.Equal(t, stageEntities, report.Stages[0].Name)
}

func TestBenchmarkRunCanceled(t *testing.T) {
	b := newTestBenchmark(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := b.Run(ctx)
	require.Error(t, err)
	require.Empty(t, report.Stages)
}

func TestBenchmarkWalkGrid(t *testing.T) {
	b := newTestBenchmark(t)

	t.Run("snapped", func(t *testing.T) {
		cells, err := b.walkGrid()
		require.NoError(t, err)
		require.Positive(t, cells)
	})

	t.Run("exact", func(t *testing.T) {
		b.FeatureFlags = featureflag.New([]string{string(featureflag.FlagExactGridPositions)})
		cells, err := b.walkGrid()
		require.NoError(t, err)
		require.Positive(t, cells)
	})
}

func TestReportStore(t *testing.T) {
	var s reportStore
	require.Nil(t, s.Get())

	s.Set(Report{RunID: "abc"})
	require.Equal(t, Report{RunID: "abc"}, s.Get())
}

func TestValidateConfig(t *testing.T) {
	valid := config{
		Entities:     1,
		EntityWidth:  1,
		EntityHeight: 1,
		EntityDepth:  1,
		Rays:         1,
		Runs:         1,
	}
	require.NoError(t, validateConfig(valid))

	tests := []struct {
		name   string
		update func(*config)
	}{
		{name: "negative entities", update: func(c *config) { c.Entities = -1 }},
		{name: "zero entity width", update: func(c *config) { c.EntityWidth = 0 }},
		{name: "negative rays", update: func(c *config) { c.Rays = -1 }},
		{name: "zero runs", update: func(c *config) { c.Runs = 0 }},
		{name: "keep alive without admin", update: func(c *config) { c.KeepAlive = true }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			conf := valid
			test.update(&conf)
			require.Error(t, validateConfig(conf))
		})
	}
}
