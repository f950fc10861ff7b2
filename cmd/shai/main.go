package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/doeshing/shell-ai/internal/infrastructure/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.Options{
		Version: version,
		Args:    os.Args[1:],
		Environ: os.Environ(),
	})
	stop()
	os.Exit(code)
}
