// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/xmidt-org/wmsretry/mapsource"
	"github.com/xmidt-org/wmsretry/retrysource"
	"gopkg.in/yaml.v3"
)

func newSchemaCommand() *cobra.Command {
	var sourceType string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the configuration schema of a source type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := zerolog.Nop()
			registry, err := newRegistry(&logger, nil)
			if err != nil {
				return err
			}

			s, ok := registry.Schema(sourceType)
			if !ok {
				return fmt.Errorf("%w: %s (known types: %v)", mapsource.ErrUnknownSourceType, sourceType, registry.Types())
			}

			e := yaml.NewEncoder(cmd.OutOrStdout())
			e.SetIndent(2)
			if err := e.Encode(s); err != nil {
				return err
			}

			return e.Close()
		},
	}

	cmd.Flags().StringVarP(&sourceType, "type", "t", retrysource.SourceType, "source type")
	return cmd
}
