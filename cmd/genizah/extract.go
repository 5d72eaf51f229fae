// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/genizah-data/internal/classify"
	"github.com/pdiddy/genizah-data/internal/corpus"
	"github.com/pdiddy/genizah-data/internal/extract"
	"github.com/pdiddy/genizah-data/internal/logger"
	"github.com/pdiddy/genizah-data/internal/output"
	"github.com/pdiddy/genizah-data/internal/tei"
	"github.com/pdiddy/genizah-data/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [files or archives...]",
	Short: "Extract metadata records from TEI descriptions",
	Long: `Extract parses each TEI-XML file (or every .xml member of a .tar,
.tar.gz, or .tgz archive), keeps the Genizah items whose title contains the
medical keyword, and writes one record per item with classmark, title,
summary, material, date range, fragment size, and layout.

Files that are not well-formed XML are reported and skipped. Values that
cannot be read as numbers are reported and left empty.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("format", string(types.FormatCSV), "output format: csv, json, yaml, table, xlsx, or sqlite")
	extractCmd.Flags().StringP("output", "o", "", "write records to this file instead of stdout")
	extractCmd.Flags().Bool("all", false, "write a record for every document, skipping the Genizah/medical filter")
	extractCmd.Flags().String("subject", types.DefaultSubject, "keyword ref target that marks a Genizah item")
	extractCmd.Flags().String("keyword", types.DefaultKeyword, "case-insensitive substring required in the item title")

	_ = viper.BindPFlag("extract.format", extractCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("extract.output", extractCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("extract.filter.all", extractCmd.Flags().Lookup("all"))
	_ = viper.BindPFlag("extract.filter.subject", extractCmd.Flags().Lookup("subject"))
	_ = viper.BindPFlag("extract.filter.keyword", extractCmd.Flags().Lookup("keyword"))

	rootCmd.AddCommand(extractCmd)
}

func extractConfig() types.ExtractConfig {
	cfg := types.ExtractConfig{
		Filter: types.FilterConfig{
			Subject: viper.GetString("extract.filter.subject"),
			Keyword: viper.GetString("extract.filter.keyword"),
			All:     viper.GetBool("extract.filter.all"),
		},
		Format: types.OutputFormat(viper.GetString("extract.format")),
		Output: viper.GetString("extract.output"),
	}
	cfg.SetDefaults()
	return cfg
}

func runExtract(cmd *cobra.Command, args []string) error {
	return extractRecords(cmd, extractConfig(), args)
}

// extractRecords writes a record for every selected document under paths.
// Records written before a fatal error are kept in the output.
func extractRecords(cmd *cobra.Command, cfg types.ExtractConfig, paths []string) error {
	var keep func(tei.Document) bool
	if !cfg.Filter.All {
		f, err := classify.NewFilter(cfg.Filter)
		if err != nil {
			return err
		}
		keep = f.Match
	}

	w, closeDst, err := recordWriter(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeDst()

	parser := corpus.NewParser(diag)
	result, runErr := extract.New(diag).ExtractAll(cmd.Context(), parser.Parse(corpus.Sources(paths)), keep, w)
	if err := w.Close(); err != nil && runErr == nil {
		return fmt.Errorf("flushing %s output: %w", cfg.Format, err)
	}
	if runErr != nil {
		return runErr
	}

	stats := parser.Stats()
	diag.Info("extraction complete",
		logger.Int("records", result.Extracted),
		logger.Int("filtered", result.Filtered),
		logger.Int("skipped", stats.Skipped()),
	)
	return nil
}

// recordWriter opens the writer for cfg.Format. The returned func releases
// the destination file, if any.
func recordWriter(cmd *cobra.Command, cfg types.ExtractConfig) (output.RecordWriter, func(), error) {
	if cfg.Format == types.FormatSQLite {
		w, err := output.NewSQLite(cfg.Output, types.Columns)
		return w, func() {}, err
	}

	dst, closeDst, err := openOutput(cmd, cfg.Output)
	if err != nil {
		return nil, nil, err
	}
	w, err := output.New(cfg.Format, dst, types.Columns)
	if err != nil {
		closeDst()
		return nil, nil, err
	}
	return w, closeDst, nil
}

// openOutput returns the destination for records: the named file, or the
// command's stdout when path is empty.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
