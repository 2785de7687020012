/*
Package commands contains the face-mcp command-line interface.

The default command runs the MCP server on stdio. The preprocess, distance
and info commands expose the same operations for scripting.
*/
package commands

import (
	"github.com/urfave/cli"

	"github.com/ironsheep/face-tools-mcp/internal/config"
	"github.com/ironsheep/face-tools-mcp/internal/event"
)

var log = event.Log

// GlobalFlags are accepted before any command.
var GlobalFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "config, c",
		Usage:  "load settings from a YAML `FILE`",
		EnvVar: config.EnvPrefix + "CONFIG",
	},
	cli.StringFlag{
		Name:  "log-level, l",
		Usage: "trace, debug, info, warning or error",
	},
}

// Commands lists the available commands.
var Commands = []cli.Command{
	ServeCommand,
	PreprocessCommand,
	DistanceCommand,
	InfoCommand,
}

// NewApp returns the face-mcp application. Without a command it serves MCP.
func NewApp(version string) *cli.App {
	app := cli.NewApp()
	app.Name = "face-mcp"
	app.Usage = "Face preprocessing tools for recognition pipelines"
	app.Version = version
	app.Flags = GlobalFlags
	app.Commands = Commands
	app.Action = serveAction
	app.EnableBashCompletion = true

	return app
}

// initConfig loads the configuration file and environment, applies the
// global flags and sets the log level.
func initConfig(ctx *cli.Context) (*config.Config, error) {
	conf, err := config.Load(ctx.GlobalString("config"))
	if err != nil {
		return nil, err
	}

	if ctx.GlobalIsSet("log-level") {
		conf.LogLevel = ctx.GlobalString("log-level")
	}

	if err := event.SetLevel(conf.LogLevel); err != nil {
		return nil, err
	}

	return conf, nil
}
