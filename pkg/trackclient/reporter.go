package trackclient

import (
	"context"
	"sync"
)

// Sample is one device position fix.
type Sample struct {
	Lat float64
	Lng float64
}

// LocationProvider abstracts the device location source. Watch streams
// fixes until ctx is cancelled; provider failures (permission denied, no
// fix) arrive on errs without ending the stream.
type LocationProvider interface {
	Watch(ctx context.Context) (samples <-chan Sample, errs <-chan error, err error)
}

// Sender is where samples are forwarded, normally a *Client.
type Sender interface {
	Send(lat, lng float64) error
	Open() bool
}

// Reporter is the driver-side reporting loop: a manual STOPPED/TRACKING
// toggle around a continuous position subscription. Samples are forwarded
// when the channel is open and dropped otherwise; there is no local queue
// or replay.
type Reporter struct {
	provider LocationProvider
	sender   Sender
	onError  func(error) // surfaced to the driver UI; never stops the loop

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReporter wires a reporter. onError may be nil.
func NewReporter(provider LocationProvider, sender Sender, onError func(error)) *Reporter {
	if onError == nil {
		onError = func(error) {}
	}
	return &Reporter{provider: provider, sender: sender, onError: onError}
}

// Start toggles tracking on. Calling Start while tracking is a no-op.
func (r *Reporter) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	samples, errs, err := r.provider.Watch(ctx)
	if err != nil {
		cancel()
		return err
	}

	r.cancel = cancel
	done := make(chan struct{})
	r.done = done
	go r.loop(ctx, samples, errs, done)
	return nil
}

// Stop toggles tracking off and unsubscribes from the provider. This is the
// only way the loop ends.
func (r *Reporter) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Tracking reports whether the loop is running.
func (r *Reporter) Tracking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

func (r *Reporter) loop(ctx context.Context, samples <-chan Sample, errs <-chan error, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return

		case s, ok := <-samples:
			if !ok {
				return
			}
			if !r.sender.Open() {
				continue // channel down: drop the sample, keep sampling
			}
			if err := r.sender.Send(s.Lat, s.Lng); err != nil {
				r.onError(err)
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			r.onError(err)
		}
	}
}
