package main

import "github.com/mj1618/seller-cli/cmd"

func main() {
	cmd.Execute()
}
