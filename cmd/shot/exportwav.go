package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-shot/internal/export"
	"github.com/robert-malhotra/go-shot/internal/resample"
	"github.com/robert-malhotra/go-shot/shot"
)

func newExportWAVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-wav <file>",
		Short: "Render a shot as 16-bit PCM WAV",
		Long: `Write the shot payload as a WAV file with one WAV channel per shot channel,
or a mono file of a single channel with --channel. Samples are labelled
with --rate and optionally converted to --resample with SoXR.

Examples:
  shot export-wav shot0001 --out shot0001.wav
  shot export-wav shot0001 --channel 12 --rate 100000 --resample 48000 --out ch12.wav`,
		Args: cobra.ExactArgs(1),
		RunE: runExportWAV,
	}
	addReadFlags(cmd, shot.DefaultChannels)
	cmd.Flags().String("out", "out.wav", "Output WAV file path")
	cmd.Flags().Int("channel", -1, "Export only this channel (default all)")
	cmd.Flags().Int("rate", 48000, "Sample rate written to the WAV header in Hz")
	cmd.Flags().Int("resample", 0, "Resample to this rate in Hz (0 keeps --rate)")
	return cmd
}

func runExportWAV(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	outFileName, _ := flags.GetString("out")
	channel, _ := flags.GetInt("channel")
	rate, _ := flags.GetInt("rate")
	newRate, _ := flags.GetInt("resample")

	if rate <= 0 {
		return fmt.Errorf("invalid sample rate %d", rate)
	}
	if newRate < 0 {
		return fmt.Errorf("invalid resample rate %d", newRate)
	}

	opts, err := readOptions(cmd)
	if err != nil {
		return err
	}
	s, err := shot.ReadFile(args[0], opts...)
	if err != nil {
		return err
	}

	grid := s.Ascans
	if channel >= 0 {
		if grid, err = export.Channel(grid, channel); err != nil {
			return err
		}
	}

	pcm := export.PCM(grid)
	outRate := rate
	if newRate > 0 && newRate != rate {
		slog.Info("Resampling audio", "from_rate", rate, "to_rate", newRate)
		if pcm, err = resample.Int16(pcm, rate, newRate, grid.Channels()); err != nil {
			return err
		}
		outRate = newRate
	}

	fOut, err := os.OpenFile(outFileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := export.WritePCM(fOut, pcm, grid.Channels(), outRate); err != nil {
		fOut.Close()
		return err
	}
	if err := fOut.Close(); err != nil {
		return err
	}

	slog.Info("WAV written",
		"output_file", outFileName,
		"channels", grid.Channels(),
		"sample_rate", outRate,
		"bytes", len(pcm))
	return nil
}
