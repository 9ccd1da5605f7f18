// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/xmidt-org/wmsretry/config"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and build every source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile(cmd))
			if err != nil {
				return err
			}

			logger := zerolog.Nop()
			registry, err := newRegistry(&logger, nil)
			if err != nil {
				return err
			}

			sources, err := registry.BuildAll(cmd.Context(), cfg.Sources)
			if err != nil {
				return err
			}

			for _, name := range cfg.SourceNames() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, sources[name].Type())
			}

			return nil
		},
	}
}
