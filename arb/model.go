// Package arb provides the cycle-accurate reference model for the weighted
// round-robin bus arbiter with atomic lock, plus the signal packing and
// decoding helpers shared by its conformance harness.
//
// The model is the ground-truth oracle: a pure state-transition function
// with no I/O. Each call to Predict consumes one cycle's sampled inputs and
// returns the grant expected at the registered output after that cycle's
// clock edge.
package arb

// NoGrant is the grant index reported when no client holds the bus.
const NoGrant = -1

// ownerAction is the tagged outcome of evaluating the current grant owner
// against one cycle's inputs.
type ownerAction int

const (
	// actionRelease ends the grant because the owner stopped requesting.
	// Work conservation: this outranks both lock and remaining entitlement.
	actionRelease ownerAction = iota
	// actionHoldLocked keeps the grant because the owner asserts lock while
	// still requesting. Lock outranks weight entitlement but not release.
	actionHoldLocked
	// actionHoldWeighted keeps the grant on remaining weight entitlement.
	actionHoldWeighted
	// actionExpire ends the grant because the entitlement is exhausted.
	actionExpire
)

// ownerRule pairs a guard with the action taken when the guard fires.
type ownerRule struct {
	guard  func(m *Model, req, lock uint64) bool
	action ownerAction
}

// ownerRules is evaluated in order; the first matching guard wins. The
// order is the arbitration precedence: work conservation > lock > weight
// entitlement > expiry.
var ownerRules = []ownerRule{
	{
		guard:  func(m *Model, req, _ uint64) bool { return req>>uint(m.current)&1 == 0 },
		action: actionRelease,
	},
	{
		guard:  func(m *Model, _, lock uint64) bool { return lock>>uint(m.current)&1 == 1 },
		action: actionHoldLocked,
	},
	{
		guard:  func(m *Model, _, _ uint64) bool { return m.counter > 0 },
		action: actionHoldWeighted,
	},
	{
		guard:  func(*Model, uint64, uint64) bool { return true },
		action: actionExpire,
	},
}

// Model mirrors the arbiter's internal registers and predicts its registered
// grant output cycle by cycle. Each scenario constructs its own fresh Model;
// the state is owned exclusively by the caller and mutated once per cycle.
type Model struct {
	numClients int

	// rrPtr is the round-robin search start. It only moves when a grant
	// ends, to (last granted + 1) mod N.
	rrPtr int
	// current is the granted client, or NoGrant.
	current int
	// counter holds the remaining entitled cycles for current. It is loaded
	// from the weight table only at the instant a new grant begins, never
	// reloaded while the same client keeps the bus.
	counter uint64
}

// NewModel creates a reference model for numClients clients in the
// post-reset state.
func NewModel(numClients int) *Model {
	m := &Model{numClients: numClients}
	m.Reset()
	return m
}

// Reset restores the post-reset state: idle, rrPtr at client 0.
func (m *Model) Reset() {
	m.rrPtr = 0
	m.current = NoGrant
	m.counter = 0
}

// NumClients returns the configured client count.
func (m *Model) NumClients() int {
	return m.numClients
}

// RRPtr returns the round-robin search pointer, for diagnostics.
func (m *Model) RRPtr() int {
	return m.rrPtr
}

// Current returns the granted client, or NoGrant.
func (m *Model) Current() int {
	return m.current
}

// Counter returns the remaining entitled cycles of the current grant, for
// diagnostics.
func (m *Model) Counter() uint64 {
	return m.counter
}

// Predict consumes one cycle's sampled inputs and returns the client index
// expected at the registered grant output after that cycle's clock edge, or
// NoGrant. req and lock carry one bit per client; weights holds one entry
// per client and must have length NumClients. A lock bit from any client
// other than the current owner is ignored.
func (m *Model) Predict(req, lock uint64, weights []uint64) int {
	if m.current != NoGrant {
		switch m.evaluateOwner(req, lock) {
		case actionHoldLocked, actionHoldWeighted:
			// Lock does not stop the counter from draining; it only stops
			// expiry from ending the grant.
			if m.counter > 0 {
				m.counter--
			}
			return m.current
		case actionRelease, actionExpire:
			m.endGrant()
		}
	}
	return m.arbitrate(req, weights)
}

// evaluateOwner applies the ordered precedence rules to the current owner.
// Only called while a client holds the grant.
func (m *Model) evaluateOwner(req, lock uint64) ownerAction {
	for _, r := range ownerRules {
		if r.guard(m, req, lock) {
			return r.action
		}
	}
	return actionExpire
}

// endGrant closes the current grant and advances the round-robin pointer
// past the client that held it.
func (m *Model) endGrant() {
	m.rrPtr = (m.current + 1) % m.numClients
	m.current = NoGrant
}

// arbitrate scans candidates in cyclic order from rrPtr and grants the
// first requester, snapshotting its weight into the counter. While no
// client requests, rrPtr is left in place and the same scan repeats next
// cycle.
func (m *Model) arbitrate(req uint64, weights []uint64) int {
	for i := 0; i < m.numClients; i++ {
		c := (m.rrPtr + i) % m.numClients
		if req>>uint(c)&1 == 1 {
			m.current = c
			m.counter = weights[c]
			return c
		}
	}
	m.current = NoGrant
	return NoGrant
}
