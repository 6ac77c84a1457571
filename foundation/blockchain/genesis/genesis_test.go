package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dlscoin/blockchain/foundation/blockchain/genesis"
)

func Test_Load(t *testing.T) {
	type table struct {
		name    string
		content string
		exp     genesis.Genesis
		fail    bool
	}

	def := genesis.Default()
	half := def
	half.HalvingInterval = 5
	half.Difficulty = 2

	tt := []table{
		{name: "defaults", content: `{}`, exp: def},
		{name: "override", content: `{"difficulty": 2, "halving_interval": 5}`, exp: half},
		{name: "invalid", content: `{"difficulty": 0}`, fail: true},
		{name: "toohard", content: `{"difficulty": 65}`, fail: true},
		{name: "garbage", content: `{`, fail: true},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "genesis.json")
			if err := os.WriteFile(path, []byte(tst.content), 0600); err != nil {
				t.Fatalf("Test %s:\tShould be able to write the file: %v", tst.name, err)
			}

			gen, err := genesis.Load(path)
			switch {
			case tst.fail && err == nil:
				t.Fatalf("Test %s:\tShould fail to load the genesis.", tst.name)
			case tst.fail:
				return
			case err != nil:
				t.Fatalf("Test %s:\tShould be able to load the genesis: %v", tst.name, err)
			}

			if gen != tst.exp {
				t.Logf("Test %s:\tgot: %+v", tst.name, gen)
				t.Logf("Test %s:\texp: %+v", tst.name, tst.exp)
				t.Fatalf("Test %s:\tShould get back the right values.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Default(t *testing.T) {
	gen := genesis.Default()

	if gen.Difficulty != 4 || gen.MiningReward != 50 || gen.HalvingInterval != 210_000 || gen.BlockTimeTarget != 10 || gen.RetargetInterval != 10 {
		t.Fatalf("Should get the network defaults, got %+v", gen)
	}

	if err := gen.Validate(); err != nil {
		t.Fatalf("Should be able to validate the defaults: %v", err)
	}
}
