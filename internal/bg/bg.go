// Package bg decides whether side work runs on its own goroutine.
//
// The audit publisher hands every event to a Runner. The console uses Async
// so a slow broker never holds up a redirect; tests use Sync so published
// events can be asserted on as soon as the call returns.
package bg

// Runner executes fn, either inline or in the background.
type Runner interface {
	Do(fn func())
}

// Async runs each function on a new goroutine.
type Async struct{}

// Do starts fn and returns immediately.
func (Async) Do(fn func()) {
	go fn()
}

// Sync runs each function in the caller's goroutine.
type Sync struct{}

// Do runs fn and returns when it has finished.
func (Sync) Do(fn func()) {
	fn()
}

// For returns Sync when debugging and Async otherwise.
func For(debug bool) Runner {
	if debug {
		return Sync{}
	}
	return Async{}
}
