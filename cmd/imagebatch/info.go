package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-batch-tools/internal/imaging"
)

func newInfoCmd() *cobra.Command {
	var f sourceFlags
	cmd := &cobra.Command{
		Use:   "info",
		Short: "List the images under --src with their dimensions and formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, &f)
		},
	}
	f.register(cmd)
	return cmd
}

func runInfo(cmd *cobra.Command, f *sourceFlags) error {
	m, err := f.open()
	if err != nil {
		return err
	}
	defer m.Close()

	paths, err := m.Paths()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tPATH\tSIZE\tCONTAINER\tBYTES")
	for i, path := range paths {
		buf, err := m.Original(i)
		if err != nil {
			return err
		}
		info, err := imaging.Describe(buf, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%dx%d\t%s\t%d\n", i, path, info.Width, info.Height, info.Container, info.FileSizeBytes)
	}
	return w.Flush()
}
