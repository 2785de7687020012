package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/urfave/cli"

	"github.com/ironsheep/face-tools-mcp/internal/align"
	"github.com/ironsheep/face-tools-mcp/internal/config"
	"github.com/ironsheep/face-tools-mcp/internal/imaging"
)

// PreprocessCommand aligns or crops a single face and writes it to disk.
var PreprocessCommand = cli.Command{
	Name:      "preprocess",
	Usage:     "Aligns or crops a face and saves it as PNG, JPEG or BMP",
	ArgsUsage: " ",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "in, i", Usage: "source image `PATH` or URL"},
		cli.StringFlag{Name: "out, o", Usage: "output image `PATH`, format from the extension"},
		cli.StringFlag{Name: "bbox, b", Usage: "face box `X0,Y0,X1,Y1`"},
		cli.StringFlag{Name: "landmarks", Usage: "JSON keypoints inline or in a `FILE`"},
		cli.IntFlag{Name: "height", Usage: "face height, 0 uses the configured value"},
		cli.IntFlag{Name: "width", Usage: "face width, 0 uses the configured value"},
		cli.Float64Flag{Name: "margin, m", Usage: "margin around the face, between 0 and 1"},
		cli.StringFlag{Name: "values", Usage: "also write the pixel values as JSON to `FILE`"},
		cli.StringFlag{Name: "standardize", Value: "none", Usage: "values scaling: none, per_image or fixed"},
		cli.BoolFlag{Name: "bgr", Usage: "write values in BGR order"},
	},
	Action: preprocessAction,
}

// preprocessedValues is the JSON written by --values.
type preprocessedValues struct {
	Shape        []int     `json:"shape"`
	ChannelOrder string    `json:"channel_order"`
	Standardize  string    `json:"standardize"`
	Values       []float64 `json:"values"`
}

func preprocessAction(ctx *cli.Context) error {
	start := time.Now()

	conf, err := initConfig(ctx)
	if err != nil {
		return err
	}

	in, out := ctx.String("in"), ctx.String("out")
	if in == "" || out == "" {
		return errors.New("both --in and --out are required")
	}

	if ctx.IsSet("height") {
		conf.FaceHeight = ctx.Int("height")
	}
	if ctx.IsSet("width") {
		conf.FaceWidth = ctx.Int("width")
	}
	if ctx.IsSet("margin") {
		conf.Margin = ctx.Float64("margin")
	}
	if err := conf.Validate(); err != nil {
		return err
	}

	order := imaging.RGB
	if ctx.Bool("bgr") {
		order = imaging.BGR
	}

	var box *imaging.Box
	if s := ctx.String("bbox"); s != "" {
		b, err := parseBox(s)
		if err != nil {
			return err
		}
		box = &b
	}

	var landmarks align.Landmarks
	if s := ctx.String("landmarks"); s != "" {
		if landmarks, err = parseLandmarks(s); err != nil {
			return err
		}
	}

	src, err := loadSource(conf, in, order)
	if err != nil {
		return err
	}

	face, err := align.Preprocess(src, conf.FaceHeight, conf.FaceWidth, conf.Margin, box, landmarks)
	if err != nil {
		return err
	}

	preview := face
	if order == imaging.BGR {
		preview = imaging.SwapRB(face)
	}

	img, err := imaging.ToImage(preview)
	if err != nil {
		return err
	}

	if err := saveImage(out, img); err != nil {
		return err
	}

	if path := ctx.String("values"); path != "" {
		if err := writeValues(path, face, order, ctx.String("standardize")); err != nil {
			return err
		}
	}

	log.Infof("preprocess: saved %s as %s in %s", face, out, time.Since(start))

	return nil
}

// loadSource reads in from disk or, for http(s) URLs, downloads it.
func loadSource(conf *config.Config, in string, order imaging.ChannelOrder) (*imaging.Array, error) {
	if strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://") {
		client := &http.Client{Timeout: conf.DownloadTimeout}
		a, err := imaging.Download(context.Background(), client, in, order)
		if err != nil {
			return nil, err
		}
		return imaging.FixImage(a), nil
	}

	if order == imaging.BGR {
		return imaging.LoadBGR(in)
	}

	return imaging.LoadRGB(in)
}

// parseBox parses "x0,y0,x1,y1".
func parseBox(s string) (imaging.Box, error) {
	fields := strings.Split(s, ",")
	values := make([]int, 0, len(fields))

	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return imaging.Box{}, fmt.Errorf("invalid bbox %q: %w", s, err)
		}
		values = append(values, v)
	}

	return imaging.BoxFromSlice(values)
}

// parseLandmarks reads a keypoint map such as
// {"left_eye": {"x": 38, "y": 51}, ...} from s or from the file named s.
func parseLandmarks(s string) (align.Landmarks, error) {
	data := []byte(s)
	if !strings.HasPrefix(strings.TrimSpace(s), "{") {
		b, err := os.ReadFile(s)
		if err != nil {
			return nil, fmt.Errorf("failed to read landmarks: %w", err)
		}
		data = b
	}

	var points map[string]align.Point
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("failed to parse landmarks: %w", err)
	}

	return align.LandmarksFromMap(points)
}

// saveImage writes img with the encoder matching the file extension.
func saveImage(path string, img image.Image) error {
	var encoder imgio.Encoder

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		encoder = imgio.JPEGEncoder(95)
	case ".bmp":
		encoder = imgio.BMPEncoder()
	case ".png", "":
		encoder = imgio.PNGEncoder()
	default:
		return fmt.Errorf("unsupported output format: %s", filepath.Ext(path))
	}

	if err := imgio.Save(path, img, encoder); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	return nil
}

func writeValues(path string, face *imaging.Array, order imaging.ChannelOrder, standardize string) error {
	values := face

	switch standardize {
	case "", "none":
		standardize = "none"
	case "per_image":
		var err error
		if values, err = imaging.Normalize(face); err != nil {
			return err
		}
	case "fixed":
		values = imaging.FixedStandardize(face)
	default:
		return fmt.Errorf("unknown standardize mode: %s", standardize)
	}

	data, err := json.Marshal(preprocessedValues{
		Shape:        values.Shape,
		ChannelOrder: order.String(),
		Standardize:  standardize,
		Values:       values.Data,
	})
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
