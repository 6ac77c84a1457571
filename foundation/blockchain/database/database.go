// Package database handles the blocks and transactions that make up the
// blockchain, the proof of work that seals a block, and the in-memory
// append-only chain.
package database

import (
	"fmt"
	"sync"
)

// Database manages the in-memory chain of blocks. Blocks are only ever
// appended, so any copy handed out is a consistent snapshot.
type Database struct {
	mu     sync.RWMutex
	blocks []Block
}

// New constructs a new database holding the specified genesis block.
func New(genesis Block) (*Database, error) {
	if err := ValidateChain([]Block{genesis}); err != nil {
		return nil, err
	}

	db := Database{
		blocks: []Block{genesis.Copy()},
	}

	return &db, nil
}

// Write appends the block to the chain after checking it links to the
// current latest block.
func (db *Database) Write(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	latest := db.blocks[len(db.blocks)-1]
	if err := block.ValidateBlock(latest); err != nil {
		return fmt.Errorf("write block %d: %w", block.Index, err)
	}

	db.blocks = append(db.blocks, block.Copy())

	return nil
}

// Len returns the number of blocks in the chain, including genesis.
func (db *Database) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.blocks)
}

// LatestBlock returns the block at the tip of the chain.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.blocks[len(db.blocks)-1].Copy()
}

// Copy returns a copy of the full chain.
func (db *Database) Copy() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	blocks := make([]Block, len(db.blocks))
	for i, block := range db.blocks {
		blocks[i] = block.Copy()
	}

	return blocks
}

// QueryBlocksByNumber returns the blocks with an index between from and to,
// inclusive. The range is clamped to the blocks that exist.
func (db *Database) QueryBlocksByNumber(from uint64, to uint64) []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	last := uint64(len(db.blocks) - 1)
	if to > last {
		to = last
	}

	var blocks []Block
	for i := from; i <= to; i++ {
		blocks = append(blocks, db.blocks[i].Copy())
	}

	return blocks
}
