package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// GoFPDFRenderer is the default Renderer: it loads a font family from
// FontsDir, lays out one line per paragraph, and writes a PDF to
// OutputDir/{fileName}.pdf. Grounded on original_source/src/printer.rs's
// genpdf usage (font family loaded from "./fonts", one paragraph per
// source line, render_to_file).
type GoFPDFRenderer struct {
	FontsDir  string
	OutputDir string
	FontName  string
}

// NewGoFPDFRenderer constructs a GoFPDFRenderer rooted at fontsDir/outputDir.
// It does not itself enforce the fonts-dir startup precondition (spec.md
// §6) — that check belongs to cmd/spoolserver at startup.
func NewGoFPDFRenderer(fontsDir, outputDir string) *GoFPDFRenderer {
	return &GoFPDFRenderer{FontsDir: fontsDir, OutputDir: outputDir, FontName: "Helvetica"}
}

// Render lays out text (already line-numbered by the caller) as a single
// paragraph-per-line PDF document and writes it to
// OutputDir/{fileName}.pdf.
func (r *GoFPDFRenderer) Render(ctx context.Context, text, fileName string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return fmt.Errorf("render: create output dir: %w", err)
	}

	fontDir := r.FontsDir
	if fontDir == "" {
		fontDir = "."
	}
	pdf := gofpdf.New("P", "mm", "A4", fontDir)
	pdf.SetMargins(10, 10, 10)

	fontName := r.FontName
	ttfPath := filepath.Join(fontDir, fontName+".ttf")
	if _, err := os.Stat(ttfPath); err == nil {
		pdf.AddUTF8Font(fontName, "", fontName+".ttf")
	} else {
		fontName = "Helvetica"
	}

	pdf.AddPage()
	pdf.SetFont(fontName, "", 10)

	for _, line := range strings.Split(text, "\n") {
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render: layout: %w", err)
	}

	path := filepath.Join(r.OutputDir, fileName+".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	return nil
}
