package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/dlscoin/blockchain/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount string
	data   string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the receiver.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.Flags().StringVarP(&amount, "amount", "v", "0", "Amount to send, any JSON number.")
	sendCmd.Flags().StringVarP(&data, "data", "d", "", "Data to send.")
}

func sendRun(cmd *cobra.Command, args []string) {
	from, err := loadAddress(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	tx := database.Tx{
		Amount: json.Number(amount),
		Data:   data,
		From:   from,
		To:     to,
	}

	if err := send(url, tx); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Transaction added to mempool")
}

func send(url string, tx database.Tx) error {
	return call(http.MethodPost, fmt.Sprintf("%s/v1/tx/submit", url), tx, nil)
}
