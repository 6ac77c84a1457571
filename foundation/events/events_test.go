package events_test

import (
	"testing"

	"github.com/dlscoin/blockchain/foundation/events"
)

func Test_Events(t *testing.T) {
	evts := events.New()

	all := evts.Acquire("1")
	peers := evts.Acquire("2", "peer", " ")

	if evts.Acquire("1") != all {
		t.Fatal("Should get back the same channel for the same id.")
	}
	if evts.Count() != 2 {
		t.Fatalf("Should have two subscribers, got %d", evts.Count())
	}

	evts.Send("state: MineNextBlock: MINING: perform POW: txs[1]")
	evts.Send("peer: Broadcast: sent to peer[localhost:9180]")

	if msg := <-all; msg != "state: MineNextBlock: MINING: perform POW: txs[1]" {
		t.Fatalf("Should receive every event, got %q", msg)
	}
	if msg := <-all; msg != "peer: Broadcast: sent to peer[localhost:9180]" {
		t.Fatalf("Should receive every event, got %q", msg)
	}

	if msg := <-peers; msg != "peer: Broadcast: sent to peer[localhost:9180]" {
		t.Fatalf("Should only receive peer events, got %q", msg)
	}
	if len(peers) != 0 {
		t.Fatal("Should not receive state events on a peer subscription.")
	}

	if err := evts.Release("1"); err != nil {
		t.Fatalf("Should be able to release the channel: %v", err)
	}
	if _, open := <-all; open {
		t.Fatal("Should close a released channel.")
	}
	if err := evts.Release("1"); err == nil {
		t.Fatal("Should not be able to release an unknown id.")
	}

	evts.Shutdown()
	if _, open := <-peers; open {
		t.Fatal("Should close every channel on shutdown.")
	}
	if evts.Count() != 0 {
		t.Fatal("Should have no subscribers after shutdown.")
	}
}
