package report

import (
	"bytes"
	"testing"
	"time"

	"clearspend/internal/analysis"
	"clearspend/internal/core"

	"github.com/shopspring/decimal"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestChartsRenderPNG(t *testing.T) {
	totals := []analysis.CategoryTotal{
		{Category: "Groceries", Amount: decimal.NewFromInt(35)},
		{Category: "Entertainment", Amount: decimal.NewFromFloat(12.99)},
	}
	series := []analysis.DailyPoint{
		{Day: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(20)},
		{Day: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(15)},
	}
	txs := []core.Transaction{
		debitTx(1, "TESCO", "Groceries", 20),
		debitTx(3, "NETFLIX", "Entertainment", 12.99),
	}

	c := NewCharts()
	renders := []struct {
		name string
		fn   func() ([]byte, error)
	}{
		{"pie", func() ([]byte, error) { return c.Pie(totals) }},
		{"bar", func() ([]byte, error) { return c.Bar(totals) }},
		{"line", func() ([]byte, error) { return c.Line(series) }},
		{"scatter", func() ([]byte, error) { return c.Scatter(txs) }},
	}
	for _, r := range renders {
		t.Run(r.name, func(t *testing.T) {
			img, err := r.fn()
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !bytes.HasPrefix(img, pngMagic) {
				t.Fatal("output is not a PNG")
			}
		})
	}
}

func TestChartsRejectEmptyInput(t *testing.T) {
	c := NewCharts()
	if _, err := c.Pie(nil); err == nil {
		t.Fatal("pie: expected error")
	}
	if _, err := c.Bar(nil); err == nil {
		t.Fatal("bar: expected error")
	}
	if _, err := c.Line(nil); err == nil {
		t.Fatal("line: expected error")
	}
	if _, err := c.Scatter(nil); err == nil {
		t.Fatal("scatter: expected error")
	}
}
