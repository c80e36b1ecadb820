package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dshulyak/art6/art"
)

func newBuildCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Insert records read from stdin and optionally serialize the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRecords(cmd.InOrStdin())
			if err != nil {
				return errors.Wrap(err, "reading records")
			}

			t := buildTree(records)
			log.Info().Int("records", len(records)).Msg("built tree")

			ok, reason, stats := t.Validate()
			if !ok {
				return errors.Errorf("built tree fails validation: %s", reason)
			}
			log.Debug().Int("nodes", stats.Nodes).Int("leaves", stats.Leaves).Msg("validated")

			if outPath == "" {
				return nil
			}
			return writeFrozen(t, outPath)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "write the serialized frozen-view buffer to this path")
	return cmd
}

func writeFrozen(t *art.Tree, path string) error {
	t.ShrinkToFit()
	buf := make([]byte, t.SizeInBytes())
	if _, err := t.Serialize(buf); err != nil {
		return errors.Wrap(err, "serializing tree")
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return errors.Wrap(err, "writing output")
	}
	log.Info().Str("path", path).Int("bytes", len(buf)).Msg("serialized tree")
	return nil
}
