package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jlrickert/testtools/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewCompareFixtureCommand(), os.Args[1:])
	stop()
	os.Exit(code)
}
