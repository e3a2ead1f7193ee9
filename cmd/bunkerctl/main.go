package main

import (
	"github.com/bunkerhq/bunker/internal/cli"
)

func main() {
	cli.Execute()
}
