package main

import (
	"os"

	"github.com/Fepozopo/gridshot/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
