package cmd

import (
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print address for the specific account",
	Run:   addressRun,
}

func init() {
	rootCmd.AddCommand(addressCmd)
}

func addressRun(cmd *cobra.Command, args []string) {
	address, err := loadAddress(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(address)
}

// loadAddress returns the address for the private key stored at the
// specified path.
func loadAddress(path string) (string, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return "", err
	}

	return crypto.PubkeyToAddress(privateKey.PublicKey).Hex(), nil
}
