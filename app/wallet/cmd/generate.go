package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) {
	address, err := generateKey(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Address:", address)
}

// generateKey writes a new private key to the specified path and returns
// the address for it. An existing key is never overwritten.
func generateKey(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("key file %s already exists", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return "", err
	}

	if err := crypto.SaveECDSA(path, privateKey); err != nil {
		return "", err
	}

	return crypto.PubkeyToAddress(privateKey.PublicKey).Hex(), nil
}
