package main

import (
	"github.com/andrescamacho/edsm-checker-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
