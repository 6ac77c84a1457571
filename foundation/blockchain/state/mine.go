package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/dlscoin/blockchain/foundation/blockchain/database"
	"github.com/dlscoin/blockchain/foundation/blockchain/schedule"
)

// MineNextBlock produces the next block in the chain, paying the mining
// reward to the specified address. Only one mining operation runs at a time,
// concurrent callers wait their turn and build on the block left by the
// previous one. The search can be cancelled through the context or by
// shutting down the node.
func (s *State) MineNextBlock(ctx context.Context, minerAddress string) (database.Block, error) {
	minerAddress = strings.TrimSpace(minerAddress)
	if minerAddress == "" {
		return database.Block{}, fmt.Errorf("%w: miner address is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shut.Err() != nil {
		return database.Block{}, ErrShutdown
	}

	// Cancel the search if the node is shut down while mining.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.shut, cancel)
	defer stop()

	prms := s.retrieveParams()
	latestBlock := s.db.LatestBlock()

	s.evHandler("state: MineNextBlock: MINING: add reward: miner[%s]: reward[%d]", minerAddress, prms.miningReward)

	// The reward transaction is added to the mempool and the block is mined
	// over a copy of the mempool that ends with it. Anything submitted after
	// this point goes into the next block.
	trans := s.mempool.AddAndCopy(database.NewRewardTx(minerAddress, prms.miningReward))

	s.evHandler("state: MineNextBlock: MINING: perform POW: txs[%d]", len(trans))

	block, err := database.POW(ctx, database.POWArgs{
		Index:        latestBlock.Index + 1,
		PreviousHash: latestBlock.Hash,
		TimeStamp:    max(s.now().Unix(), latestBlock.TimeStamp),
		Trans:        trans,
		Difficulty:   prms.difficulty,
		Workers:      s.workers,
		EvHandler:    s.evHandler,
	})
	if err != nil {

		// Only this function removes transactions from the mempool and it
		// holds the lock, so the reward is still at the same position.
		s.mempool.DeleteAt(len(trans) - 1)

		s.evHandler("state: MineNextBlock: MINING: ERROR: %s", err)
		return database.Block{}, fmt.Errorf("mining block %d: %w", latestBlock.Index+1, err)
	}

	s.evHandler("state: MineNextBlock: MINING: update local state")

	if err := s.updateLocalState(block, len(trans)); err != nil {
		return database.Block{}, err
	}

	// Send the new block to the network. This doesn't wait for delivery.
	s.broadcaster.Broadcast(block)

	return block, nil
}

// updateLocalState writes the block to the chain, removes the transactions
// it includes from the mempool and applies the difficulty and reward
// schedules for the new chain length.
func (s *State) updateLocalState(block database.Block, included int) error {
	s.evHandler("state: updateLocalState: write block[%d]: hash[%s]", block.Index, block.Hash)

	if err := s.db.Write(block); err != nil {
		return err
	}

	removed := s.mempool.Remove(included)
	s.evHandler("state: updateLocalState: drained mempool[%d]: pending[%d]", len(removed), s.mempool.Count())

	length := uint64(s.db.Len())

	s.pmu.Lock()
	defer s.pmu.Unlock()

	if schedule.RetargetDue(length, s.genesis.RetargetInterval) {
		now := s.now()
		elapsed := now.Sub(s.params.lastRetarget)
		difficulty := schedule.Retarget(elapsed, s.genesis.TargetDuration(), s.params.difficulty)

		s.evHandler("state: updateLocalState: retarget: length[%d]: elapsed[%v]: difficulty[%d->%d]", length, elapsed, s.params.difficulty, difficulty)

		s.params.difficulty = difficulty
		s.params.lastRetarget = now
	}

	reward := schedule.Halve(length, s.genesis.HalvingInterval, s.params.miningReward)
	if reward != s.params.miningReward {
		s.evHandler("state: updateLocalState: halving: length[%d]: reward[%d->%d]", length, s.params.miningReward, reward)
		s.params.miningReward = reward
	}

	return nil
}

// retrieveParams returns a copy of the current consensus values.
func (s *State) retrieveParams() params {
	s.pmu.RLock()
	defer s.pmu.RUnlock()

	return s.params
}
