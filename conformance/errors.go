package conformance

import "fmt"

// MultiGrantError reports a grant output that is not a legal one-hot vector
// for the configured client count, most commonly more than one bit set. This
// indicates a DUT defect independent of any model comparison and is never
// retried.
type MultiGrantError struct {
	// Cycle is the 1-based cycle within the current run.
	Cycle uint64
	// Grant is the raw grant vector sampled from the DUT.
	Grant uint64
	// Err is the decode failure, arb.ErrMultiGrant or arb.ErrGrantRange.
	Err error
}

func (e *MultiGrantError) Error() string {
	return fmt.Sprintf("cycle %d: illegal grant output %#b: %v",
		e.Cycle, e.Grant, e.Err)
}

func (e *MultiGrantError) Unwrap() error {
	return e.Err
}

// MismatchError reports a cycle where the decoded DUT grant differs from the
// model's prediction. It carries the full stimulus and model state for
// root-cause triage.
type MismatchError struct {
	Cycle uint64
	// DUT and Model are the decoded grant indices (arb.NoGrant when idle).
	DUT   int
	Model int
	// Req and Lock are the request/lock vectors driven that cycle.
	Req  uint64
	Lock uint64
	// RRPtr and Counter are the model's internal state after the cycle.
	RRPtr   int
	Counter uint64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf(
		"cycle %d: grant mismatch: dut=%d model=%d (req=%#b lock=%#b rrPtr=%d counter=%d)",
		e.Cycle, e.DUT, e.Model, e.Req, e.Lock, e.RRPtr, e.Counter)
}
