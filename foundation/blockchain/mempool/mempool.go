// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"sync"

	"github.com/dlscoin/blockchain/foundation/blockchain/database"
)

// Mempool represents the ordered set of transactions waiting to be
// included in the next block. Transactions are kept in arrival order.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
}

// New constructs a new empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the end of the pool and returns the new
// number of transactions.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// AddAndCopy appends a transaction and returns a copy of the pool that
// includes it. Both steps happen under the same lock so the transaction is
// always the last one in the returned copy.
func (mp *Mempool) AddAndCopy(tx database.Tx) []database.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return mp.copy()
}

// Copy returns a copy of the transactions in the pool in arrival order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return mp.copy()
}

// Remove drains the first n transactions from the pool and returns them.
// After a block is sealed over a copy of the pool, anything that arrived
// after the copy was taken sits behind those n transactions and stays.
func (mp *Mempool) Remove(n int) []database.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	n = min(max(n, 0), len(mp.pool))

	removed := mp.pool[:n:n]
	remaining := make([]database.Tx, len(mp.pool)-n)
	copy(remaining, mp.pool[n:])
	mp.pool = remaining

	return removed
}

// DeleteAt removes the transaction at the specified position in the pool.
// It reports false when the position doesn't exist.
func (mp *Mempool) DeleteAt(index int) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if index < 0 || index >= len(mp.pool) {
		return false
	}

	mp.pool = append(mp.pool[:index:index], mp.pool[index+1:]...)

	return true
}

// =============================================================================

// copy must be called with the lock held.
func (mp *Mempool) copy() []database.Tx {
	trans := make([]database.Tx, len(mp.pool))
	for i, tx := range mp.pool {
		trans[i] = tx.Copy()
	}

	return trans
}
