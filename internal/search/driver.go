// Package search implements spec.md §4.4-§4.6: the local-search driver
// over internal/operators' move catalog, the ruin-and-recreate
// perturbation loop with simulated-annealing-style acceptance, and the
// goroutine-based multi-start parallelism that picks the best of S
// independent streams. Grounded on the teacher's
// internal/opt/alns_engine.go main loop (construct -> local search ->
// perturb -> accept/reject -> repeat until budget exhausted).
package search

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"vrpengine/internal/config"
	"vrpengine/internal/construct"
	"vrpengine/internal/metrics"
	"vrpengine/internal/operators"
	"vrpengine/internal/progress"
	"vrpengine/internal/runstore"
	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

// Options configures one Run call. Zero values fall back to
// config.Current()'s defaults where one exists.
type Options struct {
	Streams        int          // spec.md §4.6 multi-start S; 0 means config default
	MaxIterations  int          // per-stream perturbation iterations; 0 means 1000
	Deadline       time.Time    // zero means no deadline
	Seed           int64        // deterministic seed; 0 is a valid seed, not "unset"
	RegretK        int          // 0 means 3
	PriorityWeight int64        // 0 means config default
	Progress       ProgressFunc // optional; called after every perturbation iteration

	// Broker, when non-nil, receives the same per-iteration progress as
	// Progress, converted to progress.Event and published under the
	// run's RunID string for any subscriber
	// watching this run (spec.md §4.6). Independent of Progress so a
	// caller can use either, both, or neither.
	Broker progress.EventBroker

	// Store, when non-nil, receives one runstore.RunRecord per Run call
	// (spec.md §9: persistence is always opt-in, never required).
	Store runstore.Store
}

// ProgressFunc receives a snapshot of one stream's progress. It must
// not retain s or mutate it; Snapshot is a read-only view (spec.md §4.6
// "progress reporting never affects the search's result").
type ProgressFunc func(Snapshot)

// Snapshot is a single progress event, identified by the run and the
// stream that produced it.
type Snapshot struct {
	RunID      uuid.UUID
	StreamID   uuid.UUID
	StreamIdx  int
	Iteration  int
	Objective  int64
	Unassigned int
}

// Result is the outcome of Run: the best feasible solution found across
// every stream, plus the objective it scored and which stream produced
// it (useful for reproducing a run with Streams=1, Seed=<same>, and
// forcing that one stream).
type Result struct {
	RunID         uuid.UUID
	Solution      *vrpsolution.Solution
	Objective     int64
	StreamIdx     int
	Iterations    int
	Improvements  int
	AcceptedWorse int
	FinalRemoval  []float64
	FinalInsert   []float64
}

// Run performs spec.md §4.6's multi-start search: Options.Streams
// independent streams, each owning its own Solution clone and its own
// deterministically seeded RNG, racing to lower the objective; the best
// feasible result wins, ties broken by the lowest stream index so a
// repeated run with the same Options is bit-for-bit reproducible
// (spec.md §8 property P8).
//
// Run validates in's forced steps (spec.md §6 VehicleStep) once, up
// front, before spawning any stream: a step that can never be honored
// (an impossible placement, not just an unlucky one) is a *vrperrors.InputError
// returned here rather than discovered independently, and swallowed,
// inside every stream.
func Run(ctx context.Context, in *vrpmodel.Input, opts Options) (Result, error) {
	probe := vrpsolution.NewSolution(in)
	if err := construct.PlaceForced(probe); err != nil {
		return Result{}, err
	}

	start := time.Now()
	defer func() { metrics.Duration.Observe(time.Since(start).Seconds()) }()
	startedAt := start

	streams := opts.Streams
	if streams <= 0 {
		streams = config.Current().MultiStartStreams
	}
	if streams <= 0 {
		streams = 1
	}
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = 1000
	}
	regretK := opts.RegretK
	if regretK <= 0 {
		regretK = 3
	}
	priorityWeight := opts.PriorityWeight
	if priorityWeight == 0 {
		priorityWeight = config.Current().PriorityWeight
	}

	runID := uuid.New()
	results := make([]Result, streams)
	done := make(chan int, streams)

	for i := 0; i < streams; i++ {
		go func(idx int) {
			results[idx] = runStream(ctx, in, opts, runID, idx, maxIter, regretK, priorityWeight)
			done <- idx
		}(i)
	}
	for i := 0; i < streams; i++ {
		<-done
	}

	best := -1
	for i, r := range results {
		if r.Solution == nil {
			continue
		}
		if best == -1 || r.Objective < results[best].Objective {
			best = i
		}
	}
	if best == -1 {
		return Result{RunID: runID}, nil
	}
	winner := results[best]

	if opts.Store != nil {
		cfg := config.Current()
		unassigned := 0
		if winner.Solution != nil {
			unassigned = countUnassigned(winner.Solution)
		}
		_ = opts.Store.SaveRun(ctx, runstore.RunRecord{
			RunID:               runID.String(),
			StartedAt:           startedAt,
			Streams:             streams,
			Iterations:          winner.Iterations,
			Improvements:        winner.Improvements,
			AcceptedWorse:       winner.AcceptedWorse,
			BestObjective:       winner.Objective,
			FinalObjective:      winner.Objective,
			UnassignedJobs:      unassigned,
			InitTemperature:     cfg.InitialTemperature,
			CoolingFactor:       cfg.CoolingFactor,
			InitRemovalWeights:  cfg.InitialRemovalWeights[:],
			InitInsertWeights:   cfg.InitialInsertWeights[:],
			FinalRemovalWeights: winner.FinalRemoval,
			FinalInsertWeights:  winner.FinalInsert,
		})
	}
	return winner, nil
}

func runStream(ctx context.Context, in *vrpmodel.Input, opts Options, runID uuid.UUID, idx int, maxIter, regretK int, priorityWeight int64) Result {
	streamID := deterministicStreamID(runID, idx)
	rng := rand.New(rand.NewSource(opts.Seed*1_000_003 + int64(idx)))

	sol := vrpsolution.NewSolution(in)
	if err := construct.PlaceForced(sol); err != nil {
		// Run already validated forced-step feasibility before spawning
		// any stream; this can only fail here if that probe's result
		// somehow diverges from a fresh Solution, which never happens.
		return Result{RunID: runID, StreamIdx: idx}
	}
	seedStrategies := []construct.Seed{
		construct.SeedFarthestFromStart, construct.SeedEarliestDeadline,
		construct.SeedHighestPriority, construct.SeedHighestAmount,
		construct.SeedNearestToStart,
	}
	construct.RegretInsert(sol, regretK, seedStrategies[idx%len(seedStrategies)])

	localSearch(sol, priorityWeight)

	cfg := config.Current()
	removalW := newWeights(cfg.InitialRemovalWeights[:], 0.98)
	insertW := newWeights(cfg.InitialInsertWeights[:], 0.98)
	temperature := cfg.InitialTemperature
	if temperature <= 0 {
		temperature = 1
	}
	cooling := cfg.CoolingFactor
	if cooling <= 0 || cooling >= 1 {
		cooling = 0.995
	}

	bestSol := sol.Clone()
	bestObj, bestOK := vrpsolution.Objective(bestSol, priorityWeight)
	if !bestOK {
		bestObj = 1 << 62
	}

	iter := 0
	improvements := 0
	acceptedWorse := 0
	for ; iter < maxIter; iter++ {
		if ctx.Err() != nil {
			break
		}
		if !opts.Deadline.IsZero() && time.Now().After(opts.Deadline) {
			break
		}

		before, beforeOK := vrpsolution.Objective(sol, priorityWeight)
		if !beforeOK {
			before = 1 << 62
		}

		// removalSlot picks which entry of spec.md §4.6's perturbation
		// catalog runs this iteration: ruin-and-recreate (itself split
		// between a random and a Shaw-related removal sub-variant),
		// random shuffle of a route, or swap of two non-improving moves.
		// Only the ruin-and-recreate entry leaves anything unassigned, so
		// only it goes on to pick and run an insertion strategy.
		removalSlot := removalW.pick(rng)
		insertSlot := insertW.pick(rng)
		switch removalSlot {
		case 0:
			if rng.Intn(2) == 0 {
				randomRemoval(sol, rng)
			} else {
				shawRemoval(sol, rng)
			}
			if insertSlot == 0 {
				construct.RegretInsert(sol, regretK, seedStrategies[rng.Intn(len(seedStrategies))])
			} else {
				construct.GreedyInsert(sol, seedStrategies[rng.Intn(len(seedStrategies))])
			}
		case 1:
			shuffleRoute(sol, rng)
		default:
			swapNonImproving(sol, rng)
		}
		localSearch(sol, priorityWeight)

		after, afterOK := vrpsolution.Objective(sol, priorityWeight)
		if !afterOK {
			after = 1 << 62
		}

		improved := after < before
		worsenedAccepted := !improved && after > before
		accept := improved || acceptWorse(after-before, temperature, rng)
		removalW.reward(removalSlot, improved)
		if removalSlot == 0 {
			insertW.reward(insertSlot, improved)
		}
		metrics.Iterations.WithLabelValues(boolLabel(accept)).Inc()

		if !accept {
			sol = bestSol.Clone()
		} else {
			if improved {
				improvements++
			} else if worsenedAccepted {
				acceptedWorse++
			}
			if after < bestObj {
				bestObj = after
				bestSol = sol.Clone()
			}
		}
		temperature *= cooling

		if opts.Progress != nil || opts.Broker != nil {
			snap := Snapshot{
				RunID: runID, StreamID: streamID, StreamIdx: idx,
				Iteration: iter, Objective: bestObj, Unassigned: countUnassigned(bestSol),
			}
			if opts.Progress != nil {
				opts.Progress(snap)
			}
			if opts.Broker != nil {
				opts.Broker.Publish(runID.String(), progress.Event{
					RunID: snap.RunID.String(), StreamID: snap.StreamID.String(), StreamIdx: snap.StreamIdx,
					Iteration: snap.Iteration, Objective: snap.Objective, Unassigned: snap.Unassigned,
				})
			}
		}
	}

	metrics.Objective.Observe(float64(bestObj))
	metrics.UnassignedCount.Observe(float64(countUnassigned(bestSol)))
	return Result{
		RunID: runID, Solution: bestSol, Objective: bestObj, StreamIdx: idx, Iterations: iter,
		Improvements: improvements, AcceptedWorse: acceptedWorse,
		FinalRemoval: append([]float64(nil), removalW.w...), FinalInsert: append([]float64(nil), insertW.w...),
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// localSearch descends to a local optimum: repeatedly apply the best
// improving move found across every operator kind except UnassignOnNeed
// until none remains. UnassignOnNeed is skipped because its delta is
// negative for every served priority-0 job, so the descent would
// otherwise unassign all of them.
func localSearch(s *vrpsolution.Solution, priorityWeight int64) {
	for {
		var bestMove operators.Move
		bestDelta := int64(0)
		found := false
		for _, kind := range operators.Kinds() {
			if kind == operators.UnassignOnNeed {
				continue
			}
			for _, m := range operators.Generate(kind, s) {
				if m.DeltaCost < bestDelta {
					bestDelta = m.DeltaCost
					bestMove = m
					found = true
				}
			}
		}
		if !found {
			return
		}
		bestMove.Apply(s)
		metrics.OperatorSelected.WithLabelValues(bestMove.Kind.String()).Inc()
	}
}

// acceptWorse implements the simulated-annealing-style criterion
// (spec.md §4.4): a worsening move of size delta (>0) is accepted with
// probability exp(-delta/temperature).
func acceptWorse(delta int64, temperature float64, rng *rand.Rand) bool {
	if delta <= 0 {
		return true
	}
	if temperature <= 0 {
		return false
	}
	p := math.Exp(-float64(delta) / temperature)
	return rng.Float64() < p
}

func countUnassigned(s *vrpsolution.Solution) int {
	n := 0
	for _, u := range s.Unassigned {
		if u {
			n++
		}
	}
	return n
}

// deterministicStreamID derives a stream's UUID from the run's UUID and
// its index rather than generating a fresh random one, so StreamID is
// itself reproducible given the same RunID seed (spec.md §8 P8).
func deterministicStreamID(runID uuid.UUID, idx int) uuid.UUID {
	b := runID
	b[15] ^= byte(idx)
	b[14] ^= byte(idx >> 8)
	return b
}

