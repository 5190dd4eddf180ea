package main

import (
	"context"
	"os"

	"github.com/MJE43/session-secret-go/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
