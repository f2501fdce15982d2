package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"reflect"
	"syscall"

	"github.com/Project-Cepi/Rayfast/area"
	"github.com/Project-Cepi/Rayfast/featureflag"
	"github.com/Project-Cepi/Rayfast/geometry"
	rayfasthttp "github.com/Project-Cepi/Rayfast/http"
	"github.com/Project-Cepi/Rayfast/models"
	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/encoding/json"
)

var (
	// The version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "rayfast_bench_info",
		Help:        "Rayfast benchmark information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// Keeps the config field names readable by the cli package when the binary is
// obfuscated.
var _ = reflect.TypeOf(config{})

type config struct {
	Entities     int      `cli:""        env:"RAYFAST_ENTITIES"      help:"The number of entities to intersect."`
	EntityWidth  float64  `cli:",hidden" env:"RAYFAST_ENTITY_WIDTH"  help:"The width of an entity bounding box."`
	EntityHeight float64  `cli:",hidden" env:"RAYFAST_ENTITY_HEIGHT" help:"The height of an entity bounding box."`
	EntityDepth  float64  `cli:",hidden" env:"RAYFAST_ENTITY_DEPTH"  help:"The depth of an entity bounding box."`
	Rays         int      `cli:""        env:"RAYFAST_RAYS"          help:"The number of random rays cast per run."`
	GridLength   float64  `cli:""        env:"RAYFAST_GRID_LENGTH"   help:"The length walked by the grid iterator per run."`
	Runs         int      `cli:""        env:"RAYFAST_RUNS"          help:"The number of runs of each stage."`
	Seed         uint64   `cli:""        env:"RAYFAST_SEED"          help:"The random seed."`
	AdminAddr    string   `cli:""        env:"RAYFAST_ADMIN_ADDR"    help:"Admin listening address. Disabled when empty."`
	KeepAlive    bool     `cli:""        env:"RAYFAST_KEEP_ALIVE"    help:"Keep the admin server running after the benchmark until interrupted."`
	LogLevel     string   `cli:""        env:"RAYFAST_LOG_LEVEL"     help:"Log level (debug|info|warning|error)."`
	LogIndent    bool     `cli:""        env:"RAYFAST_LOG_INDENT"    help:"Indent logs."`
	FeatureFlags []string `cli:",hidden" env:"RAYFAST_FEATURE_FLAGS" help:"Comma separated feature flags."`
	Version      bool     `cli:""        env:"-"                     help:"Show version."`
	Help         bool     `cli:""        env:"-"                     help:"Show help."`
}

func main() {
	conf := config{
		Entities:     1000,
		EntityWidth:  123,
		EntityHeight: 456,
		EntityDepth:  789,
		Rays:         100_000,
		GridLength:   100_000,
		Runs:         5,
		Seed:         1,
		LogLevel:     logs.InfoLevel.String(),
	}

	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Runs the rayfast intersection and grid traversal benchmarks.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	var reports reportStore
	done := make(chan struct{})

	if conf.AdminAddr != "" {
		admin := rayfasthttp.NewAdminHandler(rayfasthttp.AdminOptions{
			Version: version,
			ReadinessCheck: func() bool {
				return reports.Get() != nil
			},
			Report: reports.Get,
		})

		adminCtx, stopAdmin := context.WithCancel(ctx)
		defer stopAdmin()

		go func() {
			defer close(done)
			rayfasthttp.ListenAndServe(adminCtx, &http.Server{
				Addr:    conf.AdminAddr,
				Handler: metrics.HTTPHandler(admin, rayfasthttp.MetricsPathFormatter),
			})
		}()

		if !conf.KeepAlive {
			defer func() {
				stopAdmin()
				<-done
			}()
		}
	} else {
		close(done)
	}

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("entities", conf.Entities).
		WithTag("rays", conf.Rays).
		WithTag("grid_length", conf.GridLength).
		WithTag("runs", conf.Runs).
		WithTag("admin_addr", conf.AdminAddr).
		Info("starting rayfast benchmark")

	models.RegisterConverters(area.Converters)

	bench := Benchmark{
		Entities:     conf.Entities,
		EntitySize:   geometry.Point{conf.EntityWidth, conf.EntityHeight, conf.EntityDepth},
		Rays:         conf.Rays,
		GridLength:   conf.GridLength,
		Runs:         conf.Runs,
		Seed:         conf.Seed,
		FeatureFlags: featureflag.New(conf.FeatureFlags),
	}
	if err := bench.Setup(area.Converters); err != nil {
		logs.Fatal(err)
	}

	report, err := bench.Run(ctx)
	if err != nil {
		logs.Fatal(err)
	}
	reports.Set(report)

	logs.WithTag("run_id", report.RunID).
		WithTag("duration", report.Duration.String()).
		Info("rayfast benchmark finished")

	if conf.KeepAlive {
		<-done
	}
}

func validateConfig(conf config) error {
	if conf.Entities < 0 {
		return errors.New("entities must not be negative").
			WithTag("entities", conf.Entities)
	}

	if conf.EntityWidth <= 0 || conf.EntityHeight <= 0 || conf.EntityDepth <= 0 {
		return errors.New("entity size must be positive").
			WithTag("width", conf.EntityWidth).
			WithTag("height", conf.EntityHeight).
			WithTag("depth", conf.EntityDepth)
	}

	if conf.Rays < 0 {
		return errors.New("rays must not be negative").
			WithTag("rays", conf.Rays)
	}

	if conf.Runs <= 0 {
		return errors.New("runs must be positive").
			WithTag("runs", conf.Runs)
	}

	if conf.KeepAlive && conf.AdminAddr == "" {
		return errors.New("keep alive requires an admin address")
	}

	return nil
}
