package main

import (
	"os"

	"bro/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
