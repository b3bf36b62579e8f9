package main

import (
	"github.com/netdev-io/ferry/internal/cli"
)

func init() {
	cli.Init(cli.RootCmd)
}

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		cli.Fatal(err)
	}
}
