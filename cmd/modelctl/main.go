package main

import (
	"os"

	"modelops/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
