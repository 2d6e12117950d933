package main

import (
	"context"
	"os"

	"github.com/mattsolo1/grove-blockbook/cmd"
)

func main() {
	if err := cmd.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
