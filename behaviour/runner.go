package behaviour

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/events"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/libs/service"

	"votingfsm_demo/rounds"
	"votingfsm_demo/types"
)

const runnerListenerID = "behaviour-runner"

// Runner drives a local cohort of participants: whenever the engine enters a
// round, it runs the matching activity once per participant and submits the
// resulting payloads. It stands in for the network transport of a real
// deployment, where each payload would arrive from a remote peer.
type Runner struct {
	service.BaseService

	engine       *rounds.Engine
	activities   map[types.RoundID]Activity
	participants []types.Address

	donec chan struct{}
}

func NewRunner(engine *rounds.Engine, activities map[types.RoundID]Activity, participants []types.Address) *Runner {
	r := &Runner{
		engine:       engine,
		activities:   activities,
		participants: participants,
		donec:        make(chan struct{}),
	}
	r.BaseService = *service.NewBaseService(nil, "Runner", r)
	return r
}

func (r *Runner) SetLogger(logger log.Logger) {
	r.BaseService.Logger = logger
}

func (r *Runner) OnStart() error {
	if len(r.participants) == 0 {
		return errors.New("runner has no participants to act for")
	}

	err := r.engine.AddListenerForEvent(runnerListenerID, rounds.EventNewRound, func(data events.EventData) {
		info, ok := data.(rounds.RoundInfo)
		if !ok {
			r.Logger.Error("Unexpected event data on NewRound", "data", fmt.Sprintf("%T", data))
			return
		}
		go r.act(info)
	})
	if err != nil {
		return err
	}

	err = r.engine.AddListenerForEvent(runnerListenerID, rounds.EventEngineFinished, func(data events.EventData) {
		close(r.donec)
	})
	if err != nil {
		return err
	}

	// The engine entered its initial round before we subscribed, act on it
	// now. Re-entry is harmless since a settled round rejects late payloads.
	id, index := r.engine.CurrentRound()
	if id != "" && !r.engine.IsFinished() {
		go r.act(rounds.RoundInfo{ID: id, Index: index})
	}
	return nil
}

func (r *Runner) OnStop() {}

// Done is closed once the engine reaches a terminal round.
func (r *Runner) Done() <-chan struct{} {
	return r.donec
}

func (r *Runner) act(info rounds.RoundInfo) {
	activity, ok := r.activities[info.ID]
	if !ok {
		r.Logger.Error("No activity for round", "round", info.ID)
		return
	}

	sd := r.engine.SyncData()
	for _, sender := range r.participants {
		if !r.IsRunning() {
			return
		}

		payload, err := activity.Produce(sd, sender)
		if err != nil {
			r.Logger.Error("Activity failed", "round", info.ID, "sender", sender, "err", err)
			continue
		}

		if err := r.engine.Submit(payload); err != nil {
			// Expected once the round settles before the cohort finishes
			// submitting, or when the engine stops under us.
			r.Logger.Debug("Submit rejected", "round", info.ID, "sender", sender, "err", err)
		}
	}
}
