package calcom

import "time"

// Observer receives one call per upstream request.
type Observer interface {
	ObserveUpstream(provider, outcome string, d time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveUpstream(string, string, time.Duration) {}
