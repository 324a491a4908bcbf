package install

import "time"

const (
	DefaultRetryCount  = 2
	DefaultTimeout     = 300 * time.Second
	DefaultBackoffStep = 10 * time.Second
	DefaultBackoffMax  = 30 * time.Second
)

// Options tunes the attempt loop.
type Options struct {
	// RetryCount is the number of extra rounds after the first.
	RetryCount int

	// Timeout bounds each installer invocation.
	Timeout time.Duration

	// BackoffStep and BackoffMax shape the pause between rounds:
	// min(BackoffMax, round*BackoffStep).
	BackoffStep time.Duration
	BackoffMax  time.Duration

	// Force skips the already-installed short circuit and is passed to backends.
	Force bool

	// DryRun reports success without running any subprocess.
	DryRun bool

	// Concurrency is the number of tools installed at once by Batch.
	Concurrency int

	// OnAttempt and OnResult are called from worker goroutines and must be
	// safe for concurrent use.
	OnAttempt func(Attempt)
	OnResult  func(Result)
}

// DefaultOptions returns the standard settings.
func DefaultOptions() Options {
	return Options{
		RetryCount:  DefaultRetryCount,
		Timeout:     DefaultTimeout,
		BackoffStep: DefaultBackoffStep,
		BackoffMax:  DefaultBackoffMax,
		Concurrency: 1,
	}
}

func (o Options) normalized() Options {
	if o.RetryCount < 0 {
		o.RetryCount = 0
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.BackoffStep < 0 {
		o.BackoffStep = 0
	}
	if o.BackoffMax < 0 {
		o.BackoffMax = 0
	}
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	return o
}

// MaxAttempts returns RetryCount + 1.
func (o Options) MaxAttempts() int {
	return o.normalized().RetryCount + 1
}

// Backoff returns the pause after the given round.
func (o Options) Backoff(round int) time.Duration {
	d := time.Duration(round) * o.BackoffStep
	if d > o.BackoffMax {
		d = o.BackoffMax
	}
	return d
}
