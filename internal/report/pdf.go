// Package report assembles the downloadable outputs: the paginated PDF
// account summary and the CSV export of the classified table.
package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"clearspend/internal/analysis"
	"clearspend/internal/core"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Chart placement on the page, in document units (mm).
const (
	chartX      = 10.0
	chartWidth  = 150.0
	chartHeight = 100.0
)

// Generate assembles the PDF report: header, account summary, per-category
// expense listing, then the four charts in fixed order (pie, bar, line,
// scatter) with a page break before any chart that does not fit.
//
// Chart images are written to a scoped temp directory that is removed on
// every exit path, including mid-generation failures.
func Generate(txs []core.Transaction, renderer ChartRenderer) ([]byte, error) {
	totals := analysis.ComputeTotals(txs)
	categoryTotals := analysis.CategoryTotals(txs)

	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Arial", "B", 14)
	doc.CellFormat(0, 10, "Account Summary from ClearSpend", "", 1, "C", false, 0, "")
	doc.Ln(10)

	doc.SetFont("Arial", "B", 12)
	doc.CellFormat(0, 10, "Account Summary", "", 1, "L", false, 0, "")
	doc.SetFont("Arial", "", 12)
	doc.CellFormat(0, 10, fmt.Sprintf("Total Transactions: %d", totals.Transactions), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 10, "Total Credit: "+formatAmount(totals.Credit)+" EUR", "", 1, "L", false, 0, "")
	doc.CellFormat(0, 10, "Total Expense: "+formatAmount(totals.Debit)+" EUR", "", 1, "L", false, 0, "")
	doc.CellFormat(0, 10, "Net Savings: "+formatAmount(totals.Net)+" EUR", "", 1, "L", false, 0, "")
	doc.Ln(5)

	doc.SetFont("Arial", "B", 12)
	doc.CellFormat(0, 10, "Expense by Category", "", 1, "L", false, 0, "")
	doc.SetFont("Arial", "", 12)
	for _, ct := range categoryTotals {
		doc.CellFormat(0, 10, fmt.Sprintf("%s: %s EUR", ct.Category, formatAmount(ct.Amount)), "", 1, "L", false, 0, "")
	}
	doc.Ln(5)

	if len(categoryTotals) > 0 {
		doc.SetFont("Arial", "B", 12)
		doc.CellFormat(0, 10, "Visual Representation of Expenses", "", 1, "L", false, 0, "")

		if err := placeCharts(doc, txs, categoryTotals, renderer); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func placeCharts(doc *fpdf.Fpdf, txs []core.Transaction, categoryTotals []analysis.CategoryTotal, renderer ChartRenderer) error {
	tmpDir, err := os.MkdirTemp("", "clearspend-charts-")
	if err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			slog.Warn("Failed removing chart directory", "dir", tmpDir, "error", err)
		}
	}()

	series := analysis.DailySeries(txs)
	charts := []struct {
		name   string
		render func() ([]byte, error)
	}{
		{"pie", func() ([]byte, error) { return renderer.Pie(categoryTotals) }},
		{"bar", func() ([]byte, error) { return renderer.Bar(categoryTotals) }},
		{"line", func() ([]byte, error) { return renderer.Line(series) }},
		{"scatter", func() ([]byte, error) { return renderer.Scatter(txs) }},
	}

	for _, c := range charts {
		img, err := c.render()
		if err != nil {
			return fmt.Errorf("%s chart: %w", c.name, err)
		}
		path := filepath.Join(tmpDir, c.name+"_chart.png")
		if err := os.WriteFile(path, img, 0644); err != nil {
			return fmt.Errorf("write %s chart: %w", c.name, err)
		}

		ensureSpace(doc, chartHeight)
		doc.ImageOptions(path, chartX, doc.GetY()+5, chartWidth, chartHeight, false,
			fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		doc.Ln(chartHeight + 10)
	}
	return doc.Error()
}

// ensureSpace starts a new page when the current one cannot fit a block
// of the given height.
func ensureSpace(doc *fpdf.Fpdf, height float64) {
	_, pageHeight := doc.GetPageSize()
	if pageHeight-doc.GetY() < height {
		doc.AddPage()
	}
}

// formatAmount renders a decimal with two fraction digits and thousands
// separators, e.g. 1234.5 -> "1,234.50".
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + fracPart
	if neg {
		return "-" + out
	}
	return out
}
