package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/dlscoin/blockchain/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the chain held by the node",
	Run:   chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func chainRun(cmd *cobra.Command, args []string) {
	blocks, err := chain(url)
	if err != nil {
		log.Fatal(err)
	}

	for _, block := range blocks {
		fmt.Printf("Block %d: hash[%s] prev[%s] nonce[%d] difficulty[%d] txs[%d]\n",
			block.Index, block.Hash, block.PreviousHash, block.Nonce, block.Difficulty, len(block.Transactions))

		for _, tx := range block.Transactions {
			fmt.Printf("\t%s -> %s: %s\n", tx.From, tx.To, tx.Amount)
		}
	}
}

func chain(url string) ([]database.Block, error) {
	var blocks []database.Block
	if err := call(http.MethodGet, fmt.Sprintf("%s/v1/blocks", url), nil, &blocks); err != nil {
		return nil, err
	}

	return blocks, nil
}
