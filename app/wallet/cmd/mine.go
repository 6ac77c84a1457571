package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/dlscoin/blockchain/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine a block paying the reward to this account",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) {
	address, err := loadAddress(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	block, err := mine(url, address)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Block %d mined\n", block.Index)
	fmt.Println("Hash:", block.Hash)
	fmt.Println("Nonce:", block.Nonce)
	if reward, ok := block.Reward(); ok {
		fmt.Printf("Reward: %s to %s\n", reward.Amount, reward.To)
	}
}

func mine(url string, address string) (database.Block, error) {
	req := struct {
		MinerAddress string `json:"miner_address"`
	}{
		MinerAddress: address,
	}

	var resp struct {
		Message string         `json:"message"`
		Block   database.Block `json:"block"`
	}
	if err := call(http.MethodPost, fmt.Sprintf("%s/v1/mine", url), req, &resp); err != nil {
		return database.Block{}, err
	}

	return resp.Block, nil
}
