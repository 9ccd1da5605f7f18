// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the wmsretry command line.
package cli

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/xmidt-org/wmsretry/mapsource"
	"github.com/xmidt-org/wmsretry/metrics"
	"github.com/xmidt-org/wmsretry/retrysource"
)

// DefaultConfigFile is read when --config is not given.
const DefaultConfigFile = "wmsretry.yaml"

// NewRootCommand builds the command tree.  Command output goes to out and
// logs go to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "wmsretry",
		Short: "Fetch maps from WMS sources, retrying failed upstream requests",
		Long: `wmsretry loads WMS sources from a YAML document and fetches maps from them.

Sources of type wms_retry retry transport errors and non-2xx responses a
fixed number of times, waiting a fixed delay between attempts.

Exit Codes:
  0  - Success
  1  - Error`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringP("config", "c", DefaultConfigFile, "configuration file")

	root.AddCommand(
		newFetchCommand(),
		newCheckCommand(),
		newSchemaCommand(),
		newVersionCommand(),
	)

	return root
}

// Execute runs the command line against the process arguments.
func Execute() error {
	root := NewRootCommand(os.Stdout, os.Stderr)
	err := root.Execute()
	if err != nil {
		root.PrintErrln("Error:", err)
	}

	return err
}

// newRegistry registers every source type this binary supports
func newRegistry(logger *zerolog.Logger, retries *metrics.Retries) (*mapsource.Registry, error) {
	r := mapsource.NewRegistry()
	if err := r.Register(mapsource.WMSType, mapsource.WMSConfiguration{Logger: logger}, mapsource.WMSSchema()); err != nil {
		return nil, err
	}

	err := retrysource.Register(r,
		retrysource.WithLogger(logger),
		retrysource.WithRetries(retries),
	)

	if err != nil {
		return nil, err
	}

	return r, nil
}

func configFile(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil || len(path) == 0 {
		return DefaultConfigFile
	}

	return path
}
