// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xmidt-org/wmsretry/config"
	"github.com/xmidt-org/wmsretry/logging"
	"github.com/xmidt-org/wmsretry/mapsource"
	"github.com/xmidt-org/wmsretry/metrics"
)

type fetchFlags struct {
	source string
	bbox   string
	size   string
	srs    string
	format string
	out    string
}

func newFetchCommand() *cobra.Command {
	var flags fetchFlags
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch one map from a configured source",
		Long: `Fetch one map from a configured source and write the image.

Examples:
  # Write a 256x256 tile to tile.png
  wmsretry fetch -c wmsretry.yaml --source osm --bbox -180,-90,180,90 --size 256x256 --out tile.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.source, "source", "", "name of the configured source")
	f.StringVar(&flags.bbox, "bbox", "", "bounding box as minx,miny,maxx,maxy")
	f.StringVar(&flags.size, "size", "256x256", "image size as WIDTHxHEIGHT")
	f.StringVar(&flags.srs, "srs", mapsource.DefaultSRS, "spatial reference system")
	f.StringVar(&flags.format, "format", "", "image format, overriding the source's req.format")
	f.StringVarP(&flags.out, "out", "o", "-", "output file, or - for standard output")
	cmd.MarkFlagRequired("source") //nolint:errcheck
	cmd.MarkFlagRequired("bbox")   //nolint:errcheck

	return cmd
}

// parseSize parses WIDTHxHEIGHT
func parseSize(v string) (width, height int, err error) {
	w, h, ok := strings.Cut(strings.ToLower(v), "x")
	if ok {
		width, err = strconv.Atoi(w)
		if err == nil {
			height, err = strconv.Atoi(h)
		}
	}

	if !ok || err != nil || width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("size %q: expected WIDTHxHEIGHT", v)
	}

	return
}

func runFetch(cmd *cobra.Command, flags fetchFlags) error {
	bbox, err := mapsource.ParseBBox(flags.bbox)
	if err != nil {
		return err
	}

	width, height, err := parseSize(flags.size)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configFile(cmd))
	if err != nil {
		return err
	}

	conf, ok := cfg.Sources[flags.source]
	if !ok {
		return fmt.Errorf("no source named %q in %s", flags.source, configFile(cmd))
	}

	logger := logging.New(cfg.Log, cmd.ErrOrStderr())
	retries, err := metrics.NewRetries(nil)
	if err != nil {
		return err
	}

	registry, err := newRegistry(&logger, retries)
	if err != nil {
		return err
	}

	sourceType, _ := conf[mapsource.TypeKey].(string)
	source, err := registry.Build(cmd.Context(), flags.source, sourceType, conf)
	if err != nil {
		return err
	}

	m, err := source.GetMap(cmd.Context(), mapsource.MapRequest{
		BBox:   bbox,
		Width:  width,
		Height: height,
		SRS:    flags.srs,
		Format: flags.format,
	})

	if err != nil {
		return err
	}

	logger.Info().
		Str("source", flags.source).
		Str("contentType", m.ContentType).
		Int("bytes", len(m.Data)).
		Msg("map fetched")

	return writeOutput(cmd.OutOrStdout(), flags.out, m.Data)
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "-" || len(path) == 0 {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, 0o644) //nolint:gosec
}
