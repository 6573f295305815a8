package graph

import "time"

// Observer receives token and upstream call events. pkg/metrics implements it.
type Observer interface {
	ObserveTokenHit()
	ObserveTokenFetch(d time.Duration, err error)
	ObserveUpstream(provider, outcome string, d time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveTokenHit()                              {}
func (noopObserver) ObserveTokenFetch(time.Duration, error)        {}
func (noopObserver) ObserveUpstream(string, string, time.Duration) {}
