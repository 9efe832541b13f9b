package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-batch-tools/internal/logging"
)

// Version is set by ldflags during build
var Version = "dev"

const logLevelEnv = "IMAGE_BATCH_LOG_LEVEL"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "imagebatch",
		Short:         "Scale and recolour directories of images",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.FromEnv(logLevelEnv)
		},
	}
	root.AddCommand(newProcessCmd(), newInfoCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
