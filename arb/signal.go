package arb

import (
	"errors"
	"math/bits"
)

// ErrMultiGrant reports a grant vector with more than one bit set. This is
// an illegal DUT state, distinct from a plain model/DUT mismatch.
var ErrMultiGrant = errors.New("more than one grant bit set")

// ErrGrantRange reports a grant bit set outside the configured client range.
var ErrGrantRange = errors.New("grant bit outside client range")

// PackWeights packs per-client weights into a single bus value, little-endian
// client-major: client i occupies bits [i*width, i*width+width). Values wider
// than width bits are truncated, matching the hardware bus.
func PackWeights(weights []uint64, width uint) uint64 {
	mask := uint64(1)<<width - 1
	var packed uint64
	for i, w := range weights {
		packed |= (w & mask) << (uint(i) * width)
	}
	return packed
}

// UnpackWeights splits a packed weight bus back into n per-client values of
// the given width.
func UnpackWeights(packed uint64, n int, width uint) []uint64 {
	mask := uint64(1)<<width - 1
	weights := make([]uint64, n)
	for i := range weights {
		weights[i] = packed >> (uint(i) * width) & mask
	}
	return weights
}

// DecodeGrant decodes a one-hot grant vector for n clients. An all-zero
// vector decodes to NoGrant. A vector with more than one set bit returns
// ErrMultiGrant; a single bit at or above n returns ErrGrantRange.
func DecodeGrant(gnt uint64, n int) (int, error) {
	if gnt == 0 {
		return NoGrant, nil
	}
	if gnt&(gnt-1) != 0 {
		return NoGrant, ErrMultiGrant
	}
	idx := bits.TrailingZeros64(gnt)
	if idx >= n {
		return NoGrant, ErrGrantRange
	}
	return idx, nil
}
