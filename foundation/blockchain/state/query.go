package state

import (
	"github.com/dlscoin/blockchain/foundation/blockchain/database"
	"github.com/dlscoin/blockchain/foundation/blockchain/genesis"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// Status represents a summary of the state of the node.
type Status struct {
	LatestBlockHash   string `json:"latest_block_hash"`
	LatestBlockNumber uint64 `json:"latest_block_number"`
	Length            int    `json:"length"`
	Difficulty        uint   `json:"difficulty"`
	MiningReward      uint64 `json:"mining_reward"`
	Uncommitted       int    `json:"uncommitted"`
	KnownPeers        int    `json:"known_peers"`
}

// =============================================================================

// SubmitTransaction adds a new transaction to the mempool. The transaction
// will be included in the next block that is mined.
func (s *State) SubmitTransaction(tx database.Tx) {
	n := s.mempool.Add(tx)
	s.evHandler("state: SubmitTransaction: from[%s]: to[%s]: amount[%s]: mempool[%d]", tx.From, tx.To, tx.Amount, n)
}

// VerifyChain replays the full chain checking every link and proof.
func (s *State) VerifyChain() error {
	return database.ValidateChain(s.db.Copy())
}

// =============================================================================

// RetrieveChain returns a copy of the full chain.
func (s *State) RetrieveChain() []database.Block {
	return s.db.Copy()
}

// RetrieveLatestBlock returns a copy of the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveDifficulty returns the difficulty the next block will be mined at.
func (s *State) RetrieveDifficulty() uint {
	return s.retrieveParams().difficulty
}

// RetrieveMiningReward returns the reward the next block will pay.
func (s *State) RetrieveMiningReward() uint64 {
	return s.retrieveParams().miningReward
}

// RetrieveStatus returns a summary of the state of the node.
func (s *State) RetrieveStatus() Status {
	latestBlock := s.db.LatestBlock()
	prms := s.retrieveParams()

	return Status{
		LatestBlockHash:   latestBlock.Hash,
		LatestBlockNumber: latestBlock.Index,
		Length:            s.db.Len(),
		Difficulty:        prms.difficulty,
		MiningReward:      prms.miningReward,
		Uncommitted:       s.mempool.Count(),
		KnownPeers:        s.knownPeers.Count(),
	}
}

// QueryBlocksByNumber returns the set of blocks based on block numbers. This
// function reads the chain and returns the blocks that exist in the range.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	latest := s.db.LatestBlock().Index

	if from == QueryLatest {
		from = latest
	}
	if to == QueryLatest {
		to = latest
	}

	return s.db.QueryBlocksByNumber(from, to)
}
