package main

import (
	"os"

	"github.com/openclaw/ghostctl/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
