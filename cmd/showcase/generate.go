package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dconn.dev/showcase/internal/render"
	"dconn.dev/showcase/internal/services"
)

var generateCmd = &cobra.Command{
	Use:   "generate <output-dir>",
	Short: "Write every filter state as static HTML",
	Long: `Loads data.json once and writes index.html plus one page per tag, each in
closed and open dropdown states, so the grid can be hosted without a server.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	written, err := generateSite(cmd, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Done! %d pages written to %s\n", written, args[0])
	return nil
}

// generateSite writes pages and returns how many succeeded.
// A page that fails to render or write is logged and skipped.
func generateSite(cmd *cobra.Command, outputDir string) (int, error) {
	// Ensure output directory exists
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := services.NewLoader(cfg.Data.Source, logger).Load(cmd.Context())

	renderer, markdown, err := newRenderer(render.FileLinks{})
	if err != nil {
		return 0, err
	}

	opts := services.ViewOptions{
		ShowAllLabel:   cfg.Tags.ShowAllLabel,
		PreferredOrder: cfg.Tags.PreferredOrder,
		Descriptions:   markdown,
	}

	// One page per option value, closed and open
	filters := []string{""}
	for _, o := range services.BuildTagOptions(services.ValidRecords(result.Records), "", opts.ShowAllLabel, opts.PreferredOrder) {
		if o.Value != "" {
			filters = append(filters, o.Value)
		}
	}

	written := 0
	for _, filter := range filters {
		for _, open := range []bool{false, true} {
			vm := services.NewViewModel(result, opts)
			vm.SelectTag(filter)
			if open {
				vm.OpenMenu()
			}

			var buf bytes.Buffer
			err := renderer.Page(&buf, render.PageData{
				Title:      cfg.Site.Title,
				Stylesheet: cfg.Site.Stylesheet,
				Grid:       vm.Render(),
			})
			name := render.PageFile(filter, open)
			if err != nil {
				logger.Error("Failed to render page", zap.String("file", name), zap.Error(err))
				continue
			}

			path := filepath.Join(outputDir, name)
			if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
				logger.Error("Failed to write page", zap.String("file", path), zap.Error(err))
				continue
			}
			logger.Info("Created page", zap.String("file", name), zap.String("filter", filter), zap.Bool("menu_open", open))
			written++
		}
	}

	return written, nil
}
