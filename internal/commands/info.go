package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/urfave/cli"

	"github.com/ironsheep/face-tools-mcp/internal/imaging"
)

// InfoCommand prints image metadata.
var InfoCommand = cli.Command{
	Name:      "info",
	Usage:     "Shows size, channels and format of images",
	ArgsUsage: "PATH...",
	Flags: []cli.Flag{
		cli.BoolFlag{Name: "recursive, r", Usage: "descend into subdirectories of directory arguments"},
	},
	Action: infoAction,
}

func infoAction(ctx *cli.Context) error {
	start := time.Now()

	conf, err := initConfig(ctx)
	if err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return errors.New("info needs at least one path")
	}

	cache := imaging.NewImageCache(conf.CacheTTL)
	w := ctx.App.Writer
	count := 0

	for _, path := range ctx.Args() {
		stat, err := os.Stat(path)
		if err != nil {
			return err
		}

		if !stat.IsDir() {
			info, err := imaging.LoadImageInfo(cache, path)
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "%s\t%dx%d\t%d channels\t%s\t%s\n",
				path, info.Width, info.Height, info.Channels, info.Format, info.FileSize)
			count++

			continue
		}

		err = imaging.WalkImages(path, ctx.Bool("recursive"), imaging.RGB, func(p string, img *imaging.Array) error {
			fmt.Fprintf(w, "%s\t%dx%d\t%d channels\n", p, img.Width(), img.Height(), img.Channels())
			count++
			return nil
		})
		if err != nil {
			return err
		}
	}

	log.Infof("info: read %s in %s", english.Plural(count, "image", "images"), time.Since(start))

	return nil
}
