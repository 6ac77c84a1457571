// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dlscoin/blockchain/foundation/blockchain/database"
	"github.com/dlscoin/blockchain/foundation/blockchain/genesis"
	"github.com/dlscoin/blockchain/foundation/blockchain/mempool"
	"github.com/dlscoin/blockchain/foundation/blockchain/peer"
)

// ErrInvalidInput is returned when a caller provides input the node can't
// act on. The operation has no side effects when this is returned.
var ErrInvalidInput = errors.New("invalid input")

// ErrShutdown is returned when an operation is requested after the node
// was shut down.
var ErrShutdown = errors.New("node is shutting down")

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Host             string
	Genesis          genesis.Genesis
	KnownPeers       *peer.PeerSet
	Transport        peer.Transport
	BroadcastTimeout time.Duration
	MiningWorkers    int
	Clock            func() time.Time
	EvHandler        EventHandler
}

// params are the consensus values that change as blocks are admitted.
type params struct {
	difficulty   uint
	miningReward uint64
	lastRetarget time.Time
}

// State manages the blockchain database.
type State struct {
	mu sync.Mutex

	host      string
	genesis   genesis.Genesis
	workers   int
	now       func() time.Time
	evHandler EventHandler

	pmu    sync.RWMutex
	params params

	db          *database.Database
	mempool     *mempool.Mempool
	knownPeers  *peer.PeerSet
	broadcaster *peer.Broadcaster

	shut     context.Context
	shutdown context.CancelFunc
}

// New constructs a new blockchain for data management. The genesis block is
// mined at the genesis difficulty before New returns.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, fmt.Errorf("%w: genesis: %s", ErrInvalidInput, err)
	}

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	ev("state: New: MINING: genesis block: difficulty[%d]", cfg.Genesis.Difficulty)

	// The genesis block carries no transactions and links to the sentinel
	// parent hash.
	genesisBlock, err := database.POW(context.Background(), database.POWArgs{
		Index:        0,
		PreviousHash: database.GenesisParentHash,
		TimeStamp:    now().Unix(),
		Difficulty:   cfg.Genesis.Difficulty,
		Workers:      cfg.MiningWorkers,
		EvHandler:    ev,
	})
	if err != nil {
		return nil, fmt.Errorf("mining genesis block: %w", err)
	}

	db, err := database.New(genesisBlock)
	if err != nil {
		return nil, err
	}

	broadcaster := peer.NewBroadcaster(peer.BroadcasterConfig{
		Peers:     knownPeers,
		Host:      cfg.Host,
		Transport: cfg.Transport,
		Timeout:   cfg.BroadcastTimeout,
		EvHandler: ev,
	})

	shut, shutdown := context.WithCancel(context.Background())

	state := State{
		host:      cfg.Host,
		genesis:   cfg.Genesis,
		workers:   cfg.MiningWorkers,
		now:       now,
		evHandler: ev,

		params: params{
			difficulty:   cfg.Genesis.Difficulty,
			miningReward: cfg.Genesis.MiningReward,
			lastRetarget: now(),
		},

		db:          db,
		mempool:     mempool.New(),
		knownPeers:  knownPeers,
		broadcaster: broadcaster,

		shut:     shut,
		shutdown: shutdown,
	}

	ev("state: New: genesis block: hash[%s]", genesisBlock.Hash)

	return &state, nil
}

// Shutdown cleanly brings the node down. Any mining operation in progress is
// cancelled and in-flight block broadcasts are allowed to finish.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop the mining operation if one is running.
	s.shutdown()

	// Wait for the mining operation to release the chain.
	s.mu.Lock()
	defer s.mu.Unlock()

	s.broadcaster.Shutdown()

	return nil
}
