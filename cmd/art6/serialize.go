package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newSerializeCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "serialize",
		Short: "Build a tree from stdin records, shrink it to fit, and write the frozen-view buffer",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				return errors.New("serialize requires --out")
			}
			records, err := readRecords(cmd.InOrStdin())
			if err != nil {
				return errors.Wrap(err, "reading records")
			}
			return writeFrozen(buildTree(records), outPath)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "output path for the frozen-view buffer (required)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
