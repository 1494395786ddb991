package rounds

import (
	"fmt"

	"github.com/tendermint/tendermint/libs/events"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/libs/service"
	tmsync "github.com/tendermint/tendermint/libs/sync"

	rtypes "votingfsm_demo/rounds/types"
	"votingfsm_demo/state"
	"votingfsm_demo/store"
	"votingfsm_demo/types"
)

// ------ Event switch topics ------
// listeners (behaviour runner, rpc) observe the engine through these.
const (
	EventNewRound       = "NewRound"
	EventRoundSettled   = "RoundSettled"
	EventEngineFinished = "EngineFinished"
)

// RoundInfo identifies one round instance.
type RoundInfo struct {
	ID    types.RoundID `json:"id"`
	Index int64         `json:"index"`
}

// SettleInfo describes a committed outcome.
type SettleInfo struct {
	Round types.RoundID `json:"round"`
	Event types.Event   `json:"event"`
}

// Engine drives the round FSM: it feeds payloads to the current round,
// commits settled outcomes to the synchronized store, consults the
// transition graph and swaps in the successor round. Payload acceptance and
// outcome evaluation are serialized on a single control thread; the external
// transport is responsible for delivering an identical payload sequence to
// every replica.
type Engine struct {
	service.BaseService

	config       *Config
	graph        *Graph
	participants *types.ParticipantSet
	threshold    int

	store    *store.SyncStore
	syncData *state.SynchronizedData

	mtx        tmsync.Mutex
	roundIndex int64
	currentID  types.RoundID
	current    Round
	finished   bool

	clock           RoundClock
	eventSwitch     events.EventSwitch
	payloadMsgQueue chan types.Payload

	metric *engineMetric
}

type EngineOption func(*Engine)

// SetRoundClock overrides the timeout clock, for tests.
func SetRoundClock(clock RoundClock) EngineOption {
	return func(e *Engine) {
		e.clock = clock
	}
}

func NewEngine(
	config *Config,
	graph *Graph,
	participants *types.ParticipantSet,
	ss *store.SyncStore,
	options ...EngineOption,
) *Engine {
	e := &Engine{
		config:          config,
		graph:           graph,
		participants:    participants,
		threshold:       config.ThresholdFor(participants.Size()),
		store:           ss,
		syncData:        state.NewSynchronizedData(ss, participants),
		clock:           NewRoundClock(),
		eventSwitch:     events.NewEventSwitch(),
		payloadMsgQueue: make(chan types.Payload),
		metric:          newEngineMetric(),
	}

	e.BaseService = *service.NewBaseService(nil, "ENGINE", e)

	for _, opt := range options {
		opt(e)
	}

	return e
}

func (e *Engine) SetLogger(logger log.Logger) {
	e.Logger = logger
	if e.clock != nil {
		e.clock.SetLogger(logger)
	}
}

// OnStart validates the configuration and enters the initial round. Any
// validation failure aborts startup with a descriptive cause.
func (e *Engine) OnStart() error {
	if err := e.config.ValidateBasic(); err != nil {
		return err
	}
	if err := e.participants.ValidateBasic(); err != nil {
		return err
	}
	if err := e.graph.Validate(); err != nil {
		return err
	}
	if e.threshold < 1 || e.threshold > e.participants.Size() {
		return fmt.Errorf(
			"threshold %d out of range for %d participants",
			e.threshold, e.participants.Size(),
		)
	}

	if err := e.eventSwitch.Start(); err != nil {
		return err
	}
	if err := e.clock.Start(); err != nil {
		return err
	}

	e.mtx.Lock()
	e.enterRound(e.graph.Initial())
	e.mtx.Unlock()

	go e.receiveRoutine()
	e.Logger.Info("engine started.", "initial", e.graph.Initial(), "threshold", e.threshold)
	return nil
}

func (e *Engine) OnStop() {
	if err := e.eventSwitch.Stop(); err != nil {
		e.Logger.Error("failed trying to stop eventSwitch", "error", err)
	}
	if err := e.clock.Stop(); err != nil {
		e.Logger.Error("failed trying to stop roundClock", "error", err)
	}
	e.Logger.Info("engine stopped.")
}

// Submit delivers one participant's payload for the active round. It
// validates locally and returns immediately; acceptance and resolution
// happen on the engine's control thread.
func (e *Engine) Submit(p types.Payload) error {
	if !e.IsRunning() {
		return ErrEngineNotRunning
	}
	if err := p.ValidateBasic(); err != nil {
		return err
	}

	e.mtx.Lock()
	finished := e.finished
	kind := e.current.PayloadKind()
	e.mtx.Unlock()

	if finished {
		return ErrEngineFinished
	}
	if !e.participants.HasAddress(p.Sender()) {
		return fmt.Errorf("%w: %v", ErrUnknownSender, p.Sender())
	}
	if p.Kind() != kind {
		return fmt.Errorf("%w: got %v, want %v", ErrWrongPayloadKind, p.Kind(), kind)
	}

	select {
	case e.payloadMsgQueue <- p:
	case <-e.Quit():
		return ErrEngineNotRunning
	}
	return nil
}

// receiveRoutine serializes all mutation of the active round: payload
// acceptance and timeout handling both land here.
func (e *Engine) receiveRoutine() {
	e.Logger.Debug("engine receive routine starts.")
	for {
		select {
		case <-e.Quit():
			e.Logger.Info("receiveRoutine quit.")
			return

		case p := <-e.payloadMsgQueue:
			e.handlePayload(p)

		case ti := <-e.clock.Chan():
			e.Logger.Debug("received timeout event", "timeout", ti)
			e.handleTimeout(ti)
		}
	}
}

// handlePayload accepts one payload into the active round and evaluates the
// collection. Submission errors are per-payload: logged, never fatal.
func (e *Engine) handlePayload(p types.Payload) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.finished {
		e.Logger.Debug("payload after terminal round, dropped", "sender", p.Sender())
		return
	}
	if !e.participants.HasAddress(p.Sender()) {
		e.Logger.Error("reject payload from unknown sender", "sender", p.Sender())
		return
	}

	if err := e.current.Accept(p); err != nil {
		e.Logger.Error("reject payload", "round", e.currentID, "sender", p.Sender(), "err", err)
		return
	}
	e.Logger.Debug("accepted payload", "round", e.currentID, "sender", p.Sender())

	outcome := e.current.TryResolve(e.syncData)
	if outcome == nil {
		// threshold not reached yet, keep collecting
		return
	}
	e.commitOutcome(outcome)
}

// handleTimeout fires the round_timeout self-loop for the round instance the
// tick was armed for; stale ticks are dropped.
func (e *Engine) handleTimeout(ti timeoutInfo) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.finished || ti.Index != e.roundIndex {
		e.Logger.Debug("stale timeout, dropped", "timeout", ti, "round_index", e.roundIndex)
		return
	}

	e.Logger.Info("round timed out, retrying", "round", e.currentID, "round_index", e.roundIndex)
	e.metric.MarkTimeout()

	next, err := e.graph.Next(e.currentID, types.EventRoundTimeout)
	if err != nil {
		// unreachable once the graph validated
		e.Logger.Error("timeout transition lookup failed", "err", err)
		go e.Stop()
		return
	}
	e.enterRound(next)
}

// commitOutcome writes the outcome's store effects and advances the FSM.
// Requires e.mtx.
func (e *Engine) commitOutcome(outcome *rtypes.Outcome) {
	switch outcome.Status {
	case rtypes.OutcomeSettled:
		e.metric.MarkSettled()
		if len(outcome.Values) > 0 || outcome.CollectionKey != "" {
			if err := e.store.Commit(e.roundIndex, outcome.Values, outcome.CollectionKey, outcome.Collection); err != nil {
				e.Logger.Error("sync store commit failed", "round", e.currentID, "err", err)
				go e.Stop()
				return
			}
		}
		e.Logger.Info("round settled", "round", e.currentID, "event", outcome.Event)

	case rtypes.OutcomeUnreachable:
		// not an error: the round restarts with a clean collection
		e.metric.MarkNoMajority()
		e.Logger.Info("no majority possible, retrying", "round", e.currentID)
	}

	e.eventSwitch.FireEvent(EventRoundSettled, SettleInfo{Round: e.currentID, Event: outcome.Event})

	next, err := e.graph.Next(e.currentID, outcome.Event)
	if err != nil {
		e.Logger.Error("transition lookup failed", "err", err)
		go e.Stop()
		return
	}
	e.enterRound(next)
}

// enterRound swaps in a fresh instance of the round variant with an empty
// collection. Requires e.mtx.
func (e *Engine) enterRound(id types.RoundID) {
	e.roundIndex++
	e.currentID = id

	if e.graph.IsFinal(id) {
		for _, key := range e.graph.PostConditions(id) {
			if !e.store.Has(key) {
				// the startup validation guarantees a producer exists; a
				// miss here means an edge fired before its producer ran
				e.Logger.Error("terminal round entered with unmet post-condition",
					"round", id, "key", key)
				go e.Stop()
				return
			}
		}

		e.current = &finishedRound{id: id}
		e.finished = true
		e.metric.MarkNewRound(id, e.roundIndex)
		e.metric.MarkFinished()
		e.Logger.Info("engine finished", "round", id, "round_index", e.roundIndex)
		e.eventSwitch.FireEvent(EventEngineFinished, RoundInfo{ID: id, Index: e.roundIndex})
		return
	}

	round, err := NewRound(id, e.participants.Size(), e.threshold)
	if err != nil {
		e.Logger.Error("instantiating round failed", "round", id, "err", err)
		go e.Stop()
		return
	}
	e.current = round

	e.clock.Reset(e.config.RoundTimeout, e.roundIndex)
	e.metric.MarkNewRound(id, e.roundIndex)
	e.Logger.Info("enter new round", "round", id, "round_index", e.roundIndex)
	e.eventSwitch.FireEvent(EventNewRound, RoundInfo{ID: id, Index: e.roundIndex})
}

// ----- Introspection -----

// CurrentRound returns the active round variant and its instance index.
func (e *Engine) CurrentRound() (types.RoundID, int64) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.currentID, e.roundIndex
}

// IsFinished reports whether a terminal round was entered.
func (e *Engine) IsFinished() bool {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.finished
}

// SyncData returns the shared typed view over the store.
func (e *Engine) SyncData() *state.SynchronizedData {
	return e.syncData
}

// Threshold returns the effective threshold of the run.
func (e *Engine) Threshold() int {
	return e.threshold
}

// AddListenerForEvent subscribes a callback to one of the engine's event
// switch topics.
func (e *Engine) AddListenerForEvent(listenerID, event string, cb events.EventCallback) error {
	return e.eventSwitch.AddListenerForEvent(listenerID, event, cb)
}

// MetricJSON returns the engine metric snapshot as JSON.
func (e *Engine) MetricJSON() string {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.metric.JSONString()
}
