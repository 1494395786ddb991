package rounds

import (
	"fmt"
	"sync"
	"time"

	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/libs/service"
)

// timeoutInfo identifies which round instance a timeout was armed for, so
// the engine can drop stale ticks after the round already advanced.
type timeoutInfo struct {
	Duration time.Duration `json:"duration"`
	Index    int64         `json:"round_index"`
}

func (ti timeoutInfo) String() string {
	return fmt.Sprintf("%v ; %d", ti.Duration, ti.Index)
}

// RoundClock arms one timeout per round instance and delivers the tick on
// Chan. It is the node-local injector of the round_timeout event.
type RoundClock interface {
	Start() error
	Stop() error
	IsRunning() bool

	Chan() <-chan timeoutInfo
	Reset(duration time.Duration, index int64)
	SetLogger(logger log.Logger)
}

func NewRoundClock() RoundClock {
	rc := &roundClock{
		outc: make(chan timeoutInfo, 1),
	}
	rc.BaseService = *service.NewBaseService(nil, "ROUNDCLOCK", clockService{rc})
	return rc
}

// clockService adapts *roundClock to service.Service: the clock's
// two-argument Reset shadows the promoted BaseService.Reset, so the
// clock alone no longer satisfies the interface NewBaseService expects.
type clockService struct{ *roundClock }

func (cs clockService) Reset() error { return cs.BaseService.Reset() }

type roundClock struct {
	service.BaseService

	mtx   sync.Mutex
	timer *time.Timer
	outc  chan timeoutInfo
}

func (rc *roundClock) OnStart() error {
	return nil
}

func (rc *roundClock) OnStop() {
	rc.mtx.Lock()
	defer rc.mtx.Unlock()
	if rc.timer != nil {
		rc.timer.Stop()
	}
}

func (rc *roundClock) Chan() <-chan timeoutInfo {
	return rc.outc
}

// Reset stops the pending timeout and arms a new one for the round instance
// identified by index.
func (rc *roundClock) Reset(duration time.Duration, index int64) {
	rc.mtx.Lock()
	defer rc.mtx.Unlock()

	if rc.timer != nil {
		rc.timer.Stop()
	}

	// drain a tick armed for the prior round, if it already fired
	select {
	case <-rc.outc:
	default:
	}

	ti := timeoutInfo{Duration: duration, Index: index}
	rc.timer = time.AfterFunc(duration, func() {
		select {
		case rc.outc <- ti:
		case <-rc.Quit():
		}
	})
	rc.Logger.Debug("round clock armed", "timeout", ti)
}
