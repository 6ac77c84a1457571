package state

import (
	"errors"
	"fmt"

	"github.com/dlscoin/blockchain/foundation/blockchain/database"
	"github.com/dlscoin/blockchain/foundation/blockchain/peer"
)

// RegisterPeers adds the specified hosts to the set of known peers. Blank
// hosts are ignored, but at least one host must be provided.
func (s *State) RegisterPeers(hosts []string) error {
	var peers []peer.Peer
	for _, host := range hosts {
		pr := peer.New(host)
		if pr.Host == "" {
			continue
		}
		peers = append(peers, pr)
	}

	if len(peers) == 0 {
		return fmt.Errorf("%w: at least one peer is required", ErrInvalidInput)
	}

	for _, pr := range peers {
		if s.knownPeers.Add(pr) {
			s.evHandler("state: RegisterPeers: add peer-node %s", pr.Host)
		}
	}

	return nil
}

// RetrieveKnownPeers retrieves a copy of the known peer list excluding
// this node.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// ObservePeerBlock takes a block pushed by a peer and checks it against our
// latest block. The block is never added to our chain: the chain is only
// extended by our own mining and there is no fork choice between chains.
func (s *State) ObservePeerBlock(block database.Block) error {
	latestBlock := s.db.LatestBlock()

	err := block.ValidateBlock(latestBlock)
	switch {
	case err == nil:
		s.evHandler("state: ObservePeerBlock: blk[%d]: hash[%s]: extends our chain", block.Index, block.Hash)

	case errors.Is(err, database.ErrChainIntegrity):
		s.evHandler("state: ObservePeerBlock: blk[%d]: hash[%s]: doesn't extend our chain: %s", block.Index, block.Hash, err)

	default:
		s.evHandler("state: ObservePeerBlock: blk[%d]: ERROR: %s", block.Index, err)
	}

	return err
}
