// Package operators implements the closed catalog of local-search moves
// spec.md §4.4 enumerates, each generating candidate Moves against a
// snapshot of the current Solution and reporting their cost delta
// without mutating it — grounded on the teacher's
// internal/opt/alns_engine.go twoOptImprove/crossExchangeImprove/
// twoOptStarImprove/orOptLocalImprove family, generalized from a flat
// customer list to spec.md's routes-with-caches model and extended with
// the shipment- and priority-aware moves the spec adds.
package operators

import "vrpengine/internal/vrpsolution"

// Kind identifies one of the twelve move families. The enumeration is
// closed: internal/search's localSearch ranges over Kinds() to generate
// candidate moves, and labels metrics.OperatorSelected with the
// applied move's Kind.String().
type Kind int

const (
	Relocate Kind = iota
	Exchange
	OrOpt
	IntraOrOpt
	TwoOpt
	IntraTwoOpt
	ReverseTwoOpt
	CrossExchange
	RouteExchange
	PDShift
	PriorityReplace
	UnassignOnNeed
)

func (k Kind) String() string {
	switch k {
	case Relocate:
		return "relocate"
	case Exchange:
		return "exchange"
	case OrOpt:
		return "or_opt"
	case IntraOrOpt:
		return "intra_or_opt"
	case TwoOpt:
		return "two_opt"
	case IntraTwoOpt:
		return "intra_two_opt"
	case ReverseTwoOpt:
		return "reverse_two_opt"
	case CrossExchange:
		return "cross_exchange"
	case RouteExchange:
		return "route_exchange"
	case PDShift:
		return "pd_shift"
	case PriorityReplace:
		return "priority_replace"
	case UnassignOnNeed:
		return "unassign_on_need"
	default:
		return "unknown"
	}
}

// Kinds returns every move family in a fixed, stable order.
func Kinds() []Kind {
	return []Kind{
		Relocate, Exchange, OrOpt, IntraOrOpt, TwoOpt, IntraTwoOpt,
		ReverseTwoOpt, CrossExchange, RouteExchange, PDShift,
		PriorityReplace, UnassignOnNeed,
	}
}

// Move is a candidate change to a Solution: its cost impact is already
// known (DeltaCost, negative is an improvement) and applying it is a
// single closure call. Moves are single-use — Apply mutates the
// Solution in place and the Move should be discarded afterward.
type Move struct {
	Kind      Kind
	DeltaCost int64
	apply     func(s *vrpsolution.Solution)
}

// Apply commits the move to s.
func (m Move) Apply(s *vrpsolution.Solution) {
	m.apply(s)
}

// Generate dispatches to the candidate-move generator for kind. This is
// the single point internal/search goes through so adding a Kind to
// Kinds() without wiring a case here is a compile-time-silent but
// test-visible bug, not a panic at search time.
func Generate(kind Kind, s *vrpsolution.Solution) []Move {
	switch kind {
	case Relocate:
		return GenerateRelocate(s)
	case Exchange:
		return GenerateExchange(s)
	case OrOpt:
		return GenerateOrOpt(s)
	case IntraOrOpt:
		return GenerateIntraOrOpt(s)
	case TwoOpt:
		return GenerateTwoOpt(s)
	case IntraTwoOpt:
		return GenerateIntraTwoOpt(s)
	case ReverseTwoOpt:
		return GenerateReverseTwoOpt(s)
	case CrossExchange:
		return GenerateCrossExchange(s)
	case RouteExchange:
		return GenerateRouteExchange(s)
	case PDShift:
		return GeneratePDShift(s)
	case PriorityReplace:
		return GeneratePriorityReplace(s)
	case UnassignOnNeed:
		return GenerateUnassignOnNeed(s)
	default:
		return nil
	}
}
