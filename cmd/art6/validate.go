package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dshulyak/art6/art"
)

func newValidateCmd() *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the structural invariants of a tree built from stdin or a frozen buffer",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				ok     bool
				reason string
				stats  art.Stats
			)

			if inPath != "" {
				buf, err := os.ReadFile(inPath)
				if err != nil {
					return errors.Wrap(err, "reading frozen buffer")
				}
				fz, _, err := art.FrozenView(buf)
				if err != nil {
					return errors.Wrap(err, "parsing frozen buffer")
				}
				ok, reason, stats = fz.Validate()
			} else {
				records, err := readRecords(cmd.InOrStdin())
				if err != nil {
					return errors.Wrap(err, "reading records")
				}
				ok, reason, stats = buildTree(records).Validate()
			}

			log.Info().Bool("ok", ok).Int("nodes", stats.Nodes).Int("leaves", stats.Leaves).Msg("validation result")
			if !ok {
				return errors.Errorf("validation failed: %s", reason)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "validate a frozen-view buffer instead of stdin records")
	return cmd
}
