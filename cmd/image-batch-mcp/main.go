package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/image-batch-tools/internal/logging"
	"github.com/ironsheep/image-batch-tools/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const logLevelEnv = "IMAGE_BATCH_LOG_LEVEL"

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-batch-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-batch-mcp - MCP server for batch image scaling and pixel transforms")
			fmt.Println()
			fmt.Println("Usage: image-batch-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=debug|info|warn|error    Log level (default warn)\n", logLevelEnv)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Logs go to stderr.")
			return
		}
	}

	// stdout is for MCP protocol
	log := logging.FromEnv(logLevelEnv)
	log.Info("starting image-batch-mcp", "version", Version, "built", BuildTime, "commit", GitCommit)

	srv := server.New(Version)
	if err := srv.Run(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
