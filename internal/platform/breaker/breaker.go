package breaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

// ErrUnavailable is returned while the breaker rejects calls.
var ErrUnavailable = errors.New("upstream temporarily unavailable")

type Config struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// Breaker guards calls to a single upstream provider.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// New builds a breaker. isSuccessful decides which errors count as upstream
// failures; nil treats every error as one.
func New(cfg Config, log *logger.Logger, isSuccessful func(error) bool) *Breaker {
	if isSuccessful == nil {
		isSuccessful = func(err error) bool { return err == nil }
	}
	st := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		IsSuccessful: isSuccessful,
	}
	if log != nil {
		st.OnStateChange = func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		}
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(st)}
}

// Do runs fn through the breaker. Open/half-open rejections come back wrapped
// in ErrUnavailable.
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	if b == nil || b.cb == nil {
		return fn()
	}
	out, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, errors.Join(ErrUnavailable, err)
		}
		if v, ok := out.(T); ok {
			return v, err
		}
		return zero, err
	}
	v, _ := out.(T)
	return v, nil
}

func (b *Breaker) State() string {
	if b == nil || b.cb == nil {
		return gobreaker.StateClosed.String()
	}
	return b.cb.State().String()
}
