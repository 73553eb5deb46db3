// FILE: lixenwraith/layerconf/cmd/layerconf/commands.go
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNotSet = errors.New("one or more keys are not set")

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY...",
		Short: "Print the value and source of each key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := buildConfig(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			results, err := resolveAll(cfg, args, opts.hide)
			if err != nil {
				return err
			}

			missing := false
			for _, r := range results {
				if r.source == nil {
					missing = true
				}
				fmt.Fprintln(cmd.OutOrStdout(), r.String())
			}
			if missing {
				return errNotSet
			}
			return nil
		},
	}
}

func newDumpCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump KEY...",
		Short: "Resolve the keys and print the result as TOML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := buildConfig(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if _, err := resolveAll(cfg, args, opts.hide); err != nil {
				return err
			}
			return cfg.Dump(cmd.OutOrStdout())
		},
	}
}
