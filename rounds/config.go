package rounds

import (
	"errors"
	"time"

	"votingfsm_demo/libs/utils"
)

// Config is the engine's configuration surface: the threshold rule and the
// per-round timeout. The participant set is supplied separately at startup.
type Config struct {
	// RoundTimeout bounds one collection cycle; on expiry the engine fires
	// a round_timeout event and re-enters the same round with an empty
	// collection.
	RoundTimeout time.Duration `mapstructure:"round_timeout"`

	// Threshold is the number of matching payloads required to settle a
	// round. Zero derives a strict two-thirds super-majority from the
	// cohort size.
	Threshold int `mapstructure:"threshold"`
}

func DefaultConfig() *Config {
	return &Config{
		RoundTimeout: 10 * time.Second,
	}
}

// TestConfig keeps timeouts short enough for unit tests.
func TestConfig() *Config {
	return &Config{
		RoundTimeout: 500 * time.Millisecond,
	}
}

func (cfg *Config) ValidateBasic() error {
	if cfg.RoundTimeout <= 0 {
		return errors.New("round_timeout must be positive")
	}
	if cfg.Threshold < 0 {
		return errors.New("threshold can not be negative")
	}
	return nil
}

// ThresholdFor resolves the effective threshold for a cohort of n.
func (cfg *Config) ThresholdFor(n int) int {
	if cfg.Threshold > 0 {
		return cfg.Threshold
	}
	return utils.SuperMajority(n)
}
