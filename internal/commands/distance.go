package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/ironsheep/face-tools-mcp/internal/embedding"
)

// DistanceCommand compares two embeddings.
var DistanceCommand = cli.Command{
	Name:      "distance",
	Usage:     "Prints the distance between two embeddings",
	ArgsUsage: "EMBEDDING1 EMBEDDING2",
	Description: "Each embedding is either a comma separated list of numbers or a JSON file\n" +
		"   holding an array of numbers.",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "metric", Usage: "euclidean_squared or angular_distance"},
	},
	Action: distanceAction,
}

func distanceAction(ctx *cli.Context) error {
	conf, err := initConfig(ctx)
	if err != nil {
		return err
	}

	if ctx.NArg() != 2 {
		return errors.New("distance needs exactly two embeddings")
	}

	name := conf.Metric
	if ctx.IsSet("metric") {
		name = ctx.String("metric")
	}

	m, err := embedding.ParseMetric(name)
	if err != nil {
		return err
	}

	e1, err := parseEmbedding(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	e2, err := parseEmbedding(ctx.Args().Get(1))
	if err != nil {
		return err
	}

	d, err := embedding.Distance(e1, e2, m)
	if err != nil {
		return err
	}

	log.Debugf("distance: compared %d values with %s", len(e1), m)

	_, err = fmt.Fprintf(ctx.App.Writer, "%g\n", d)

	return err
}

// parseEmbedding reads a JSON array from the file named s, or parses s as
// comma separated numbers.
func parseEmbedding(s string) ([]float64, error) {
	if _, err := os.Stat(s); err == nil {
		data, err := os.ReadFile(s)
		if err != nil {
			return nil, err
		}

		var values []float64
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", s, err)
		}

		return values, nil
	}

	fields := strings.Split(strings.Trim(s, "[] "), ",")
	values := make([]float64, 0, len(fields))

	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid embedding value %q: %w", f, err)
		}
		values = append(values, v)
	}

	return values, nil
}
