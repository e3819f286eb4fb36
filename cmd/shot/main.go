// Command shot inspects, catalogs and exports Shot acquisition files.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-shot/shot"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "shot",
		Short: "Inspect, catalog and export Shot acquisition files",
		Long: `shot works with Shot files: a length-prefixed XML header followed by a
length-prefixed payload of 16-bit samples.

Commands:
  - inspect: print the header and payload shape of a shot
  - import: copy shots into a directory and catalog them
  - verify: compare a catalog with the shots on disk
  - export-wav: render a shot as 16-bit PCM WAV`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newInspectCmd(),
		newImportCmd(),
		newVerifyCmd(),
		newExportWAVCmd(),
	)
	return root
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// addReadFlags registers the flags every command that decodes shots shares.
func addReadFlags(cmd *cobra.Command, channels int) {
	cmd.Flags().Int("channels", channels, "Number of channels the payload is split into")
	cmd.Flags().String("encoding", "utf-8", "Header encoding assumed when the header does not declare one")
	cmd.Flags().Bool("lenient", false, "Accept payloads shorter than their declared size")
}

func readOptions(cmd *cobra.Command) ([]shot.ReadOption, error) {
	channels, err := cmd.Flags().GetInt("channels")
	if err != nil {
		return nil, err
	}
	enc, err := cmd.Flags().GetString("encoding")
	if err != nil {
		return nil, err
	}
	lenient, err := cmd.Flags().GetBool("lenient")
	if err != nil {
		return nil, err
	}

	opts := []shot.ReadOption{shot.WithChannels(channels), shot.WithDefaultEncoding(enc)}
	if lenient {
		opts = append(opts, shot.WithLenientPayload())
	}
	return opts, nil
}

// parseRange parses "start,end,step".
func parseRange(s string) (shot.Range, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return shot.Range{}, fmt.Errorf("range %q: expected start,end,step", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return shot.Range{}, fmt.Errorf("range %q: %q is not an integer", s, p)
		}
		v[i] = n
	}
	return shot.Range{Start: v[0], End: v[1], Step: v[2]}, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
