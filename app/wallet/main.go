package main

import "github.com/dlscoin/blockchain/app/wallet/cmd"

func main() {
	cmd.Execute()
}
