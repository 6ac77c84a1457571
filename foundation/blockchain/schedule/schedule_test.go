package schedule_test

import (
	"testing"
	"time"

	"github.com/dlscoin/blockchain/foundation/blockchain/schedule"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Retarget(t *testing.T) {
	type table struct {
		name       string
		elapsed    time.Duration
		difficulty uint
		exp        uint
	}

	const target = 10 * time.Second

	tt := []table{
		{name: "fast", elapsed: 2 * time.Second, difficulty: 4, exp: 5},
		{name: "equal", elapsed: target, difficulty: 4, exp: 3},
		{name: "slow", elapsed: time.Minute, difficulty: 4, exp: 3},
		{name: "floor", elapsed: time.Minute, difficulty: 1, exp: 1},
		{name: "zero", elapsed: time.Minute, difficulty: 0, exp: 1},
		{name: "ceiling", elapsed: 2 * time.Second, difficulty: schedule.MaxDifficulty, exp: schedule.MaxDifficulty},
		{name: "above", elapsed: 2 * time.Second, difficulty: schedule.MaxDifficulty + 5, exp: schedule.MaxDifficulty},
		{name: "belowceiling", elapsed: 2 * time.Second, difficulty: schedule.MaxDifficulty - 1, exp: schedule.MaxDifficulty},
	}

	t.Log("Given the need to steer the difficulty towards the block time target.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				got := schedule.Retarget(tst.elapsed, target, tst.difficulty)
				if got != tst.exp {
					t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, got)
					t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, tst.exp)
					t.Fatalf("\t%s\tTest %d:\tShould get the right difficulty.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get the right difficulty.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_RetargetDue(t *testing.T) {
	for length := uint64(1); length <= 30; length++ {
		exp := length == 10 || length == 20 || length == 30
		if got := schedule.RetargetDue(length, 10); got != exp {
			t.Fatalf("Should only retarget on multiples of 10, length %d got %v", length, got)
		}
	}

	if schedule.RetargetDue(10, 0) {
		t.Fatal("Should never retarget with an interval of 0.")
	}
}

func Test_Halve(t *testing.T) {
	type table struct {
		name     string
		length   uint64
		interval uint64
		reward   uint64
		exp      uint64
	}

	tt := []table{
		{name: "due", length: 210_000, interval: 210_000, reward: 50, exp: 25},
		{name: "notdue", length: 209_999, interval: 210_000, reward: 50, exp: 50},
		{name: "floor", length: 10, interval: 5, reward: 25, exp: 12},
		{name: "minimum", length: 10, interval: 5, reward: 1, exp: 1},
		{name: "three", length: 15, interval: 5, reward: 3, exp: 1},
		{name: "disabled", length: 10, interval: 0, reward: 50, exp: 50},
	}

	t.Log("Given the need to halve the mining reward on schedule.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				got := schedule.Halve(tst.length, tst.interval, tst.reward)
				if got != tst.exp {
					t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, got)
					t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, tst.exp)
					t.Fatalf("\t%s\tTest %d:\tShould get the right reward.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get the right reward.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}
