package rounds

import (
	"errors"
	"fmt"

	"votingfsm_demo/types"
)

var (
	// ErrWrongPayloadKind is returned when a payload's schema does not match
	// the active round variant.
	ErrWrongPayloadKind = errors.New("payload kind does not match the active round")
	// ErrRoundAlreadySettled is returned on submission after the round
	// produced a terminal outcome.
	ErrRoundAlreadySettled = errors.New("round already settled")
	// ErrUnknownSender is returned when the payload sender is not part of
	// the cohort.
	ErrUnknownSender = errors.New("payload sender is not a participant")
	// ErrFinishedRound is returned on submission to a terminal sink round.
	ErrFinishedRound = errors.New("finished round accepts no payloads")
	// ErrEngineFinished is returned on submission after the engine entered
	// a terminal round.
	ErrEngineFinished = errors.New("engine reached a terminal round")
	// ErrEngineNotRunning is returned on submission before start/after stop.
	ErrEngineNotRunning = errors.New("engine is not running")
)

// ErrNoSuchTransition reports an undeclared (round, event) edge. Surfacing
// one is a configuration error: fatal at startup validation, never expected
// at runtime once the graph validated.
type ErrNoSuchTransition struct {
	From  types.RoundID
	Event types.Event
}

func (e ErrNoSuchTransition) Error() string {
	return fmt.Sprintf("no transition declared for (%v, %v)", e.From, e.Event)
}

// ErrUnmetCondition reports a store pre/post-condition violation for a round.
type ErrUnmetCondition struct {
	Round types.RoundID
	Key   string
}

func (e ErrUnmetCondition) Error() string {
	return fmt.Sprintf("round %v requires store key %q", e.Round, e.Key)
}
