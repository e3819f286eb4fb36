package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-shot/catalog"
	"github.com/robert-malhotra/go-shot/shot"
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare a catalog with the shots on disk",
		Long: `Report records without files, files without records, size and checksum
differences, and files that no longer decode. Exits non-zero when anything
is reported.

Example:
  shot verify --db scan.db --dir shots`,
		Args: cobra.NoArgs,
		RunE: runVerify,
	}
	cmd.Flags().String("db", "", "Catalog database path")
	cmd.Flags().String("dir", "", "Directory holding the shots")
	cmd.Flags().String("encoding", "utf-8", "Header encoding assumed when the header does not declare one")
	cmd.Flags().Bool("lenient", false, "Accept payloads shorter than their declared size")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("dir")
	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	dbPath, _ := flags.GetString("db")
	dir, _ := flags.GetString("dir")
	enc, _ := flags.GetString("encoding")
	lenient, _ := flags.GetBool("lenient")

	opts := []shot.ReadOption{shot.WithDefaultEncoding(enc)}
	if lenient {
		opts = append(opts, shot.WithLenientPayload())
	}

	cat, err := catalog.Open(dbPath)
	if err != nil {
		return err
	}
	defer cat.Close()

	found, err := shot.Reconcile(dir, cat, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range found {
		fmt.Fprintln(out, m)
	}
	if len(found) > 0 {
		return fmt.Errorf("%d mismatches between %s and %s", len(found), dbPath, dir)
	}
	fmt.Fprintln(out, "OK")
	return nil
}
