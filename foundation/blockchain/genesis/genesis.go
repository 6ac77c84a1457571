// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dlscoin/blockchain/foundation/blockchain/schedule"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date             time.Time `json:"date"`
	Difficulty       uint      `json:"difficulty"`        // How difficult it needs to be to solve the work problem at startup.
	MiningReward     uint64    `json:"mining_reward"`     // Reward for mining a block at startup.
	HalvingInterval  uint64    `json:"halving_interval"`  // Chain length interval at which the reward is halved.
	BlockTimeTarget  uint64    `json:"block_time_target"` // Seconds per block the difficulty is steered towards.
	RetargetInterval uint64    `json:"retarget_interval"` // Chain length interval at which the difficulty is adjusted.
}

// Default returns the genesis values used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:             time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		Difficulty:       4,
		MiningReward:     50,
		HalvingInterval:  210_000,
		BlockTimeTarget:  10,
		RetargetInterval: 10,
	}
}

// TargetDuration returns the block time target as a duration.
func (g Genesis) TargetDuration() time.Duration {
	return time.Duration(g.BlockTimeTarget) * time.Second
}

// Validate checks the values can start a chain.
func (g Genesis) Validate() error {
	if g.Difficulty < 1 {
		return fmt.Errorf("difficulty must be at least 1, got %d", g.Difficulty)
	}

	if g.Difficulty > schedule.MaxDifficulty {
		return fmt.Errorf("difficulty must be at most %d, got %d", schedule.MaxDifficulty, g.Difficulty)
	}

	if g.MiningReward < 1 {
		return fmt.Errorf("mining reward must be at least 1, got %d", g.MiningReward)
	}

	if g.RetargetInterval < 1 {
		return fmt.Errorf("retarget interval must be at least 1, got %d", g.RetargetInterval)
	}

	return nil
}

// =============================================================================

// Load opens and consumes the genesis file. Any value missing from the file
// keeps its default.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
