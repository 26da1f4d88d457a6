// Command vrpsolve is the engine's fixture-driven CLI harness (spec.md
// §6): it loads an Input from a JSON fixture, runs search.Run, and
// prints the resulting Output JSON to stdout. It exists to exercise the
// library end-to-end against a mock RoutingOracle, not as a production
// routing service — that would need the full decoder and HTTP surface
// the teacher's cmd/api carries, which is explicitly out of scope.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"vrpengine/internal/buildinfo"
	"vrpengine/internal/config"
	"vrpengine/internal/oracle"
	"vrpengine/internal/progress"
	"vrpengine/internal/runstore"
	"vrpengine/internal/search"
	"vrpengine/internal/vrperrors"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code per spec.md §6: 0 success, 1
// internal error, 2 input error, 3 routing error, 4 no solution found.
func run(args []string) int {
	fs := flag.NewFlagSet("vrpsolve", flag.ContinueOnError)
	fixturePath := fs.String("fixture", "", "path to a fixture JSON input (required)")
	outputPath := fs.String("output", "", "path to write Output JSON (default stdout)")
	configPath := fs.String("config", "", "optional YAML config overlay")
	streams := fs.Int("streams", 0, "multi-start stream count (0 = config default)")
	maxIter := fs.Int("max-iterations", 0, "per-stream perturbation iterations (0 = 1000)")
	seed := fs.Int64("seed", 1, "deterministic RNG seed")
	deadlineSec := fs.Int("deadline-seconds", 0, "wall-clock budget (0 = none)")
	speedKph := fs.Float64("speed-kph", 50, "Haversine oracle's assumed travel speed")
	rateLimit := fs.Float64("oracle-rate", 0, "oracle calls/sec (0 = unlimited)")
	debugAddr := fs.String("debug-addr", "", "if set, serve /metrics and /progress on this address")
	geometry := fs.Bool("geometry", false, "attach an encoded polyline per used route to the output")
	runstoreDSN := fs.String("runstore-dsn", "", "if set, persist the run via Postgres at this DSN")
	showVersion := fs.Bool("version", false, "print build info and exit")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *showVersion {
		fmt.Printf("vrpsolve %+v\n", buildinfo.Info())
		return 0
	}
	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "vrpsolve: -fixture is required")
		return 2
	}

	cfg := config.Load(*configPath)

	var rt oracle.RoutingOracle = &oracle.Haversine{SpeedKph: *speedKph}
	if *rateLimit > 0 {
		rt = oracle.NewRateLimited(rt, *rateLimit, 1)
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	deadline := time.Time{}
	if *deadlineSec > 0 {
		deadline = time.Now().Add(time.Duration(*deadlineSec) * time.Second)
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	builder, err := loadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vrpsolve: %v\n", err)
		return 2
	}

	in, err := builder.Build(ctx, rt, cfg)
	if err != nil {
		return reportBuildError(err)
	}

	var broker progress.EventBroker
	if *debugAddr != "" {
		if os.Getenv("REDIS_URL") != "" {
			rb, err := progress.NewRedisBroker()
			if err != nil {
				log.Printf("vrpsolve: redis broker unavailable, falling back to in-process: %v", err)
				broker = progress.NewBroker()
			} else {
				broker = rb
			}
		} else {
			broker = progress.NewBroker()
		}
		go serveDebug(*debugAddr, broker)
	}

	var store runstore.Store
	if *runstoreDSN != "" {
		pg, err := runstore.NewPostgres(*runstoreDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vrpsolve: runstore: %v\n", err)
			return 1
		}
		store = pg
	}

	opts := search.Options{
		Streams:       *streams,
		MaxIterations: *maxIter,
		Deadline:      deadline,
		Seed:          *seed,
		Broker:        broker,
		Store:         store,
	}

	res, err := search.Run(ctx, in, opts)
	if err != nil {
		return reportBuildError(err)
	}
	if res.Solution == nil {
		fmt.Fprintln(os.Stderr, "vrpsolve: no solution found within budget")
		return 4
	}

	geomOracle := rt
	if !*geometry {
		geomOracle = nil
	}
	out := buildOutput(ctx, in, res, geomOracle)
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "vrpsolve: encode output: %v\n", err)
		return 1
	}
	if *outputPath == "" {
		fmt.Println(string(data))
		return 0
	}
	if err := os.WriteFile(*outputPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "vrpsolve: write output: %v\n", err)
		return 1
	}
	return 0
}

// reportBuildError maps a Build or Run error to spec.md §6's exit codes,
// printing it to stderr either way.
func reportBuildError(err error) int {
	fmt.Fprintf(os.Stderr, "vrpsolve: %v\n", err)
	var inputErr *vrperrors.InputError
	var routingErr *vrperrors.RoutingError
	switch {
	case errors.As(err, &inputErr):
		return 2
	case errors.As(err, &routingErr):
		return 3
	default:
		return 1
	}
}
