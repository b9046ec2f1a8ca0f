package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/portfolio"
	"github.com/Zachkp/portfolio/internal/web"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the portfolio as a static page",
	Long: `Renders the page in its initial state to <out>/index.html and copies the
stylesheet, script and icon sprite next to it. The exported page has no
server behind it, so navigation falls back to plain anchor links.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := export(cfg, exportDir); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported portfolio to %s\n", exportDir)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "public", "output directory")
	rootCmd.AddCommand(exportCmd)
}

func export(cfg config.Config, dir string) error {
	c, err := loadContent(cfg)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}
	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	view := portfolio.NewView(c, portfolio.Options{
		ScrollSpy:      cfg.ScrollSpy,
		UnifyEntrances: cfg.UnifyEntrances,
	})
	page := web.NewPage(view.Snapshot(), false)
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "index.html", page); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing index.html: %w", err)
	}

	// CopyFS refuses to overwrite, so earlier exports are replaced wholesale.
	static := filepath.Join(dir, "static")
	if err := os.RemoveAll(static); err != nil {
		return fmt.Errorf("clearing %s: %w", static, err)
	}
	if err := os.CopyFS(static, web.Static()); err != nil {
		return fmt.Errorf("copying static assets: %w", err)
	}

	if info, err := os.Stat(cfg.ImagesDir); err == nil && info.IsDir() {
		images := filepath.Join(dir, "images")
		if err := os.RemoveAll(images); err != nil {
			return fmt.Errorf("clearing %s: %w", images, err)
		}
		if err := os.CopyFS(images, os.DirFS(cfg.ImagesDir)); err != nil {
			return fmt.Errorf("copying images: %w", err)
		}
	}
	return nil
}
