package commands

import (
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/ironsheep/face-tools-mcp/internal/server"
)

// stdin is read by the serve command.
var stdin io.Reader = os.Stdin

// ServeCommand runs the MCP server on stdin and stdout.
var ServeCommand = cli.Command{
	Name:   "serve",
	Usage:  "Runs the MCP server on stdin/stdout",
	Action: serveAction,
}

func serveAction(ctx *cli.Context) error {
	conf, err := initConfig(ctx)
	if err != nil {
		return err
	}

	if err := conf.Validate(); err != nil {
		return err
	}

	server.Version = ctx.App.Version

	log.Debugf("face-mcp %s: serving MCP on stdio (face %dx%d, margin %g, metric %s)",
		ctx.App.Version, conf.FaceWidth, conf.FaceHeight, conf.Margin, conf.Metric)

	return server.New(conf).Serve(stdin, ctx.App.Writer)
}
