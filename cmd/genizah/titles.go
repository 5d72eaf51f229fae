// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/genizah-data/internal/classify"
	"github.com/pdiddy/genizah-data/internal/corpus"
	"github.com/pdiddy/genizah-data/internal/extract"
	"github.com/pdiddy/genizah-data/internal/output"
	"github.com/pdiddy/genizah-data/pkg/types"
)

var titlesCmd = &cobra.Command{
	Use:   "titles [files...]",
	Short: "List the path, title, summary, and dates of medical Genizah items",
	Long: `Titles reads TEI-XML files and writes a narrow CSV listing (path, title,
summary, date_start, date_end) of the Cairo Genizah items whose title
contains "medical". Files that are not well-formed XML are reported on
stderr and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTitles,
}

func init() {
	rootCmd.AddCommand(titlesCmd)
}

func runTitles(cmd *cobra.Command, args []string) error {
	w, err := output.New(types.FormatCSV, cmd.OutOrStdout(), types.TitleColumns)
	if err != nil {
		return err
	}

	var parseErr error
	docs := corpus.Documents(corpus.NewParser(diag).Parse(corpus.Files(args)), &parseErr)
	for doc := range classify.MedicalElements(docs) {
		if err := w.Write(extract.TitleRecord(doc)); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return parseErr
}
