package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dshulyak/art6/art"
)

func newDumpCmd() *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print every key/value pair in ascending order",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if inPath != "" {
				buf, err := os.ReadFile(inPath)
				if err != nil {
					return errors.Wrap(err, "reading frozen buffer")
				}
				fz, _, err := art.FrozenView(buf)
				if err != nil {
					return errors.Wrap(err, "parsing frozen buffer")
				}
				return dumpIterator(w, fz.First())
			}

			records, err := readRecords(cmd.InOrStdin())
			if err != nil {
				return errors.Wrap(err, "reading records")
			}
			return dumpIterator(w, buildTree(records).First())
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "read a frozen-view buffer instead of stdin records")
	return cmd
}

func dumpIterator(w io.Writer, it *art.Iterator) error {
	for it.Valid() {
		if _, err := fmt.Fprintf(w, "%s %d\n", it.Key(), it.Value()); err != nil {
			return err
		}
		it.Next()
	}
	return nil
}
