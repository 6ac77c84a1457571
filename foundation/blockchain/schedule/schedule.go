// Package schedule implements the chain length driven policies of the
// blockchain: the difficulty retarget and the mining reward halving.
package schedule

import (
	"time"

	"github.com/dlscoin/blockchain/foundation/blockchain/signature"
)

// MaxDifficulty is the highest difficulty a block can be mined at. A digest
// has no more leading hex zeros to ask for, so a search above it never ends.
const MaxDifficulty = signature.HashLength

// RetargetDue reports whether the difficulty should be adjusted now that
// the chain has the specified length.
func RetargetDue(chainLength uint64, interval uint64) bool {
	if interval == 0 {
		return false
	}

	return chainLength%interval == 0
}

// Retarget returns the difficulty to use after a retarget event. If the
// blocks since the last retarget were produced faster than the target the
// difficulty goes up by one up to MaxDifficulty, otherwise it goes down by
// one with a floor of 1.
func Retarget(elapsed time.Duration, target time.Duration, difficulty uint) uint {
	if elapsed < target {
		return min(difficulty+1, MaxDifficulty)
	}

	if difficulty <= 1 {
		return 1
	}

	return difficulty - 1
}

// Halve returns the mining reward to use after a block is admitted and the
// chain has the specified length. The reward is halved when the length is a
// multiple of the interval and never drops below 1.
func Halve(chainLength uint64, interval uint64, reward uint64) uint64 {
	if interval == 0 || chainLength%interval != 0 {
		return reward
	}

	return max(1, reward/2)
}
