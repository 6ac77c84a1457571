package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dlscoin/blockchain/foundation/blockchain/signature"
)

// GenesisParentHash is the previous hash recorded in the genesis block.
const GenesisParentHash = "0"

// ErrChainIntegrity is returned when a block does not link to its parent
// or its hash does not match its content.
var ErrChainIntegrity = errors.New("chain integrity violation")

// =============================================================================

// Block represents a group of transactions sealed by a proof of work.
type Block struct {
	Index        uint64 `json:"index"`         // Position of the block in the chain.
	PreviousHash string `json:"previous_hash"` // Hash of the previous block in the chain.
	TimeStamp    int64  `json:"timestamp"`     // Unix seconds when the block was mined.
	Transactions []Tx   `json:"transactions"`  // Transactions included in this block.
	Nonce        uint64 `json:"nonce"`         // Value identified to solve the hash solution.
	Difficulty   uint   `json:"difficulty"`    // Number of leading 0's needed to solve the hash solution.
	Hash         string `json:"hash"`          // Hash of the content above, set once at seal time.
}

// content is what gets hashed. The hash is never part of its own input and
// the fields are declared in lexical order of their JSON names.
type content struct {
	Difficulty   uint   `json:"difficulty"`
	Index        uint64 `json:"index"`
	Nonce        uint64 `json:"nonce"`
	PreviousHash string `json:"previous_hash"`
	TimeStamp    int64  `json:"timestamp"`
	Transactions []Tx   `json:"transactions"`
}

// ComputeHash recalculates the hash for the content of the block. The
// stored Hash field is ignored.
func (b Block) ComputeHash() (string, error) {
	return computeHash(b.Index, b.PreviousHash, b.TimeStamp, b.Transactions, b.Nonce, b.Difficulty)
}

// Copy returns a copy of the block that doesn't share the transaction slice.
func (b Block) Copy() Block {
	trans := make([]Tx, len(b.Transactions))
	for i, tx := range b.Transactions {
		trans[i] = tx.Copy()
	}
	b.Transactions = trans

	return b
}

// Reward returns the mining reward transaction in this block if there is one.
func (b Block) Reward() (Tx, bool) {
	for i := len(b.Transactions) - 1; i >= 0; i-- {
		if b.Transactions[i].IsReward() {
			return b.Transactions[i], true
		}
	}

	return Tx{}, false
}

// =============================================================================

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	Index        uint64
	PreviousHash string
	TimeStamp    int64
	Trans        []Tx
	Difficulty   uint
	Workers      int
	EvHandler    func(v string, args ...any)
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle. The search can be cancelled through
// the context, which is checked between attempts.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	// A block always carries a list, even when it's empty, so the encoding
	// of the genesis block is "[]" and not "null".
	trans := make([]Tx, len(args.Trans))
	copy(trans, args.Trans)

	nb := Block{
		Index:        args.Index,
		PreviousHash: args.PreviousHash,
		TimeStamp:    args.TimeStamp,
		Transactions: trans,
		Nonce:        0, // Will be identified by the POW algorithm.
		Difficulty:   args.Difficulty,
	}

	ev("database: POW: MINING: started: blk[%d]: difficulty[%d]: txs[%d]", nb.Index, nb.Difficulty, len(nb.Transactions))
	defer ev("database: POW: MINING: completed: blk[%d]", nb.Index)

	var (
		nonce uint64
		hash  string
		err   error
	)

	switch {
	case args.Workers > 1:
		nonce, hash, err = nb.searchParallel(ctx, args.Workers, ev)
	default:
		nonce, hash, err = nb.search(ctx, 0, 1, ev)
	}

	if err != nil {
		return Block{}, err
	}

	nb.Nonce = nonce
	nb.Hash = hash

	ev("database: POW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", nb.PreviousHash, nb.Hash, nb.Nonce)

	return nb, nil
}

// search tries the nonces start, start+step, start+2*step... until one
// solves the puzzle for this block or the context is cancelled.
func (b Block) search(ctx context.Context, start uint64, step uint64, ev func(v string, args ...any)) (uint64, string, error) {
	var attempts uint64
	for nonce := start; ; nonce += step {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: POW: MINING: attempts[%d]", attempts)
		}

		// Did we get cancelled trying to solve the problem.
		if err := ctx.Err(); err != nil {
			ev("database: POW: MINING: CANCELLED")
			return 0, "", err
		}

		hash, err := computeHash(b.Index, b.PreviousHash, b.TimeStamp, b.Transactions, nonce, b.Difficulty)
		if err != nil {
			return 0, "", err
		}

		if signature.HasLeadingZeros(hash, b.Difficulty) {
			ev("database: POW: MINING: attempts[%d]", attempts)
			return nonce, hash, nil
		}
	}
}

// searchParallel shards the nonce space over the specified number of
// workers. The first solution found wins and the other workers are stopped.
func (b Block) searchParallel(ctx context.Context, workers int, ev func(v string, args ...any)) (uint64, string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		nonce uint64
		hash  string
	}

	found := make(chan result, 1)
	failure := make(chan error, 1)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := range workers {
		go func(start uint64) {
			defer wg.Done()

			nonce, hash, err := b.search(ctx, start, uint64(workers), ev)
			if err != nil {
				if ctx.Err() == nil {
					select {
					case failure <- err:
					default:
					}
					cancel()
				}
				return
			}

			select {
			case found <- result{nonce: nonce, hash: hash}:
			default:
			}
			cancel()
		}(uint64(i))
	}

	wg.Wait()

	select {
	case r := <-found:
		return r.nonce, r.hash, nil
	case err := <-failure:
		return 0, "", err
	default:
		return 0, "", ctx.Err()
	}
}

// =============================================================================

// ValidateBlock takes a block and validates it to be the next block after
// the specified previous block.
func (b Block) ValidateBlock(previousBlock Block) error {
	nextIndex := previousBlock.Index + 1
	if b.Index != nextIndex {
		return fmt.Errorf("%w: this block is not the next index, got %d, exp %d", ErrChainIntegrity, b.Index, nextIndex)
	}

	if b.PreviousHash != previousBlock.Hash {
		return fmt.Errorf("%w: previous block hash doesn't match our known parent, got %s, exp %s", ErrChainIntegrity, b.PreviousHash, previousBlock.Hash)
	}

	if b.TimeStamp < previousBlock.TimeStamp {
		return fmt.Errorf("%w: block timestamp is before parent block, parent %d, block %d", ErrChainIntegrity, previousBlock.TimeStamp, b.TimeStamp)
	}

	return b.validateProof()
}

// validateProof checks the stored hash matches the content of the block
// and solves the puzzle at the block's difficulty.
func (b Block) validateProof() error {
	hash, err := b.ComputeHash()
	if err != nil {
		return err
	}

	if hash != b.Hash {
		return fmt.Errorf("%w: block %d hash doesn't match its content, got %s, exp %s", ErrChainIntegrity, b.Index, b.Hash, hash)
	}

	if !signature.HasLeadingZeros(b.Hash, b.Difficulty) {
		return fmt.Errorf("%w: block %d hash %s doesn't solve difficulty %d", ErrChainIntegrity, b.Index, b.Hash, b.Difficulty)
	}

	return nil
}

// ValidateChain replays the full chain checking the genesis block and every
// link after it.
func ValidateChain(blocks []Block) error {
	if len(blocks) == 0 {
		return fmt.Errorf("%w: chain is empty", ErrChainIntegrity)
	}

	genesis := blocks[0]
	if genesis.Index != 0 || genesis.PreviousHash != GenesisParentHash || len(genesis.Transactions) != 0 {
		return fmt.Errorf("%w: malformed genesis block", ErrChainIntegrity)
	}

	if err := genesis.validateProof(); err != nil {
		return err
	}

	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(blocks[i-1]); err != nil {
			return err
		}
	}

	return nil
}

// =============================================================================

// computeHash hashes the block content without the hash field.
func computeHash(index uint64, previousHash string, timeStamp int64, trans []Tx, nonce uint64, difficulty uint) (string, error) {
	c := content{
		Difficulty:   difficulty,
		Index:        index,
		Nonce:        nonce,
		PreviousHash: previousHash,
		TimeStamp:    timeStamp,
		Transactions: trans,
	}

	return signature.Hash(c)
}
