package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/metadeploy/metadeploy-sdk/pkg/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.NewRootCmd("metadeploy", "Inspect and install MetaDeploy plans from the command line")
	// cobra already printed the error
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
