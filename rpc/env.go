package rpc

import (
	jsoniter "github.com/json-iterator/go"

	"votingfsm_demo/libs/metric"
	"votingfsm_demo/rounds"
	"votingfsm_demo/state"
)

var (
	env  *Environment
	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

func SetEnvironment(e *Environment) {
	env = e
}

type Environment struct {
	Engine   *rounds.Engine
	SyncData *state.SynchronizedData

	MetricSet *metric.MetricSet
}
