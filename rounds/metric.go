package rounds

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	gometrics "github.com/rcrowley/go-metrics"

	"votingfsm_demo/types"
)

func newEngineMetric() *engineMetric {
	return &engineMetric{
		roundTimer: gometrics.NewTimer(),
	}
}

// engineMetric tracks the engine's progress; exposed over rpc as JSON.
type engineMetric struct {
	RoundIndex   int64  `json:"round_index"`
	CurrentRound string `json:"current_round"`
	Finished     bool   `json:"finished"`

	SettledRounds int64 `json:"settled_rounds"`
	NoMajorities  int64 `json:"no_majorities"`
	Timeouts      int64 `json:"timeouts"`

	roundStart time.Time
	roundTimer gometrics.Timer
}

func (em *engineMetric) JSONString() string {
	s, _ := jsoniter.MarshalToString(em)
	return s
}

func (em *engineMetric) MarkNewRound(id types.RoundID, index int64) {
	if !em.roundStart.IsZero() {
		em.roundTimer.UpdateSince(em.roundStart)
	}
	em.roundStart = time.Now()
	em.CurrentRound = id.String()
	em.RoundIndex = index
}

func (em *engineMetric) MarkSettled() {
	em.SettledRounds++
}

func (em *engineMetric) MarkNoMajority() {
	em.NoMajorities++
}

func (em *engineMetric) MarkTimeout() {
	em.Timeouts++
}

func (em *engineMetric) MarkFinished() {
	em.Finished = true
}

// RoundDurations exposes the go-metrics timer over settled rounds.
func (em *engineMetric) RoundDurations() gometrics.Timer {
	return em.roundTimer
}
