package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/face-tools-mcp/internal/commands"
	"github.com/ironsheep/face-tools-mcp/internal/event"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	app := commands.NewApp(Version)
	app.Description = fmt.Sprintf("Build time %s, commit %s.\n\n"+
		"   Without a command, face-mcp serves MCP over stdin/stdout.\n"+
		"   Logs go to stderr.", BuildTime, GitCommit)

	if err := app.Run(os.Args); err != nil {
		event.Log.Error(err)
		os.Exit(1)
	}
}
