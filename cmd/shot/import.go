package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-shot/catalog"
	"github.com/robert-malhotra/go-shot/shot"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Copy shots into a directory and catalog them",
		Long: `Decode each input shot, write it into --dir under its base name and insert
a catalog record for it into the --db database. The import stops at the
first failure; shots already imported stay cataloged.

Examples:
  shot import --db scan.db --dir shots raw/shot*
  shot import --db scan.db --dir shots --scan 0,99,1 --index 0,255,1 raw/shot*`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}
	addReadFlags(cmd, 1)
	cmd.Flags().String("db", "", "Catalog database path")
	cmd.Flags().String("dir", "", "Directory the shots are written to")
	cmd.Flags().String("scan", "", "Scan axis bounds as start,end,step")
	cmd.Flags().String("index", "", "Index axis bounds as start,end,step")
	cmd.Flags().Int64("version", shot.DefaultVersion, "Format version recorded in the catalog")
	cmd.Flags().Int("connection-id", shot.DefaultConnectionID, "Connection id recorded in the catalog")
	cmd.Flags().String("header-encoding", "utf-8", "Encoding of the written headers")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("dir")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) (err error) {
	flags := cmd.Flags()
	dbPath, _ := flags.GetString("db")
	dir, _ := flags.GetString("dir")
	scanFlag, _ := flags.GetString("scan")
	indexFlag, _ := flags.GetString("index")
	version, _ := flags.GetInt64("version")
	connectionID, _ := flags.GetInt("connection-id")
	headerEncoding, _ := flags.GetString("header-encoding")

	if (scanFlag == "") != (indexFlag == "") {
		return fmt.Errorf("--scan and --index must be given together")
	}
	var scan, index shot.Range
	if scanFlag != "" {
		if scan, err = parseRange(scanFlag); err != nil {
			return err
		}
		if index, err = parseRange(indexFlag); err != nil {
			return err
		}
	}

	readOpts, err := readOptions(cmd)
	if err != nil {
		return err
	}

	cat, err := catalog.Open(dbPath)
	if err != nil {
		return err
	}
	w, err := shot.NewWriter(dir, cat,
		shot.WithVersion(version),
		shot.WithConnectionID(connectionID),
		shot.WithHeaderEncoding(headerEncoding),
		shot.WithLogger(slog.Default()))
	if err != nil {
		cat.Close()
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if scanFlag != "" {
		if err := w.WriteAxisInfo(scan, index); err != nil {
			return err
		}
	}

	for i, path := range args {
		s, err := shot.ReadFile(path, readOpts...)
		if err != nil {
			return err
		}
		name := filepath.Base(path)
		if err := w.Write(name, s.Header, s.Samples()); err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
		slog.Info("Shot imported",
			"file", name,
			"samples", len(s.Samples()),
			"progress", fmt.Sprintf("%d/%d", i+1, len(args)))
	}

	slog.Info("Import complete", "shots", len(args), "dir", dir, "db", dbPath)
	return nil
}
