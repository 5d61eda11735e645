// Package svc is the lifecycle contract of long-running background parts.
package svc

const (
	StateREADY = iota
	StateRUNNING
	StateSTOPPED
)

type Service interface {
	Start() error // bootstrapping error only
	Stop()
	// Done - shutdown error channel
	// Since consumed by conf.Core only, Do Not Close the channel in a method
	Done() <-chan error
	Name() string
}
