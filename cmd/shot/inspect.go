package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-shot/shot"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the header and payload shape of a shot",
		Long: `Decode a shot and print its header fields, extra tags and payload shape.

Examples:
  shot inspect shot0001
  shot inspect shot0001 --channels 128
  shot inspect legacy0001 --encoding windows-1252 --lenient`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}
	addReadFlags(cmd, shot.DefaultChannels)
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	opts, err := readOptions(cmd)
	if err != nil {
		return err
	}
	s, err := shot.ReadFile(args[0], opts...)
	if err != nil {
		return err
	}
	printShot(cmd.OutOrStdout(), args[0], s)
	return nil
}

func printShot(w io.Writer, path string, s *shot.Shot) {
	h := s.Header
	channels, perChannel := s.Ascans.Shape()

	fmt.Fprintf(w, "=== %s ===\n\n", path)
	fmt.Fprintf(w, "Header length:  %d bytes\n", s.HeaderLength)
	fmt.Fprintf(w, "Data size:      %d bytes\n", s.DataSize)
	fmt.Fprintf(w, "Samples:        %d\n", len(s.Samples()))
	fmt.Fprintf(w, "Shape:          %d channels x %d samples\n", channels, perChannel)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "ScalarDataType: %s\n", h.ScalarDataType)
	fmt.Fprintf(w, "Origin:         %s\n", formatPoint(h.Origin))
	fmt.Fprintf(w, "Spacing:        %s\n", formatPoint(h.Spacing))
	fmt.Fprintf(w, "Dimensions:     %d x %d x %d\n", h.Dimensions[0], h.Dimensions[1], h.Dimensions[2])
	fmt.Fprintf(w, "IsModified:     %t\n", h.IsModified)
	fmt.Fprintf(w, "AutoCreateMask: %t\n", h.AutoCreateMask)
	fmt.Fprintf(w, "UddBinary:      %d bytes\n", len(h.UddBinary))
	fmt.Fprintf(w, "UddString:      %s\n", h.UddString)

	if len(h.Extra) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Extra tags:")
		for _, f := range h.Extra {
			fmt.Fprintf(w, "  %s = %s\n", f.Name, f.Value)
		}
	}
}

func formatPoint(p shot.Point) string {
	return fmt.Sprintf("(%s, %s, %s)",
		strconv.FormatFloat(p[0], 'g', -1, 64),
		strconv.FormatFloat(p[1], 'g', -1, 64),
		strconv.FormatFloat(p[2], 'g', -1, 64))
}
