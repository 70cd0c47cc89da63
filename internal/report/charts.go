package report

import (
	"bytes"
	"fmt"
	"time"

	"clearspend/internal/analysis"
	"clearspend/internal/core"

	"github.com/wcharczuk/go-chart/v2"
)

// Chart images are rendered at a fixed raster size and placed into the
// report at 150x100 units, matching the page layout.
const (
	chartPixelWidth  = 900
	chartPixelHeight = 600
)

// ChartRenderer supplies the four report charts as PNG images. The
// assembler treats it as an external collaborator: it receives finished
// images and only arranges them.
type ChartRenderer interface {
	Pie(totals []analysis.CategoryTotal) ([]byte, error)
	Bar(totals []analysis.CategoryTotal) ([]byte, error)
	Line(series []analysis.DailyPoint) ([]byte, error)
	Scatter(txs []core.Transaction) ([]byte, error)
}

// Charts renders the report charts with go-chart.
type Charts struct{}

func NewCharts() *Charts {
	return &Charts{}
}

func (c *Charts) Pie(totals []analysis.CategoryTotal) ([]byte, error) {
	if len(totals) == 0 {
		return nil, fmt.Errorf("pie chart: %w", core.ErrEmptyDataset)
	}
	values := make([]chart.Value, 0, len(totals))
	for _, t := range totals {
		values = append(values, chart.Value{
			Label: t.Category,
			Value: amountFloat(t),
		})
	}
	pie := chart.PieChart{
		Title:  "Expenses by Category",
		Width:  chartPixelWidth,
		Height: chartPixelHeight,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render pie chart: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Charts) Bar(totals []analysis.CategoryTotal) ([]byte, error) {
	if len(totals) == 0 {
		return nil, fmt.Errorf("bar chart: %w", core.ErrEmptyDataset)
	}
	bars := make([]chart.Value, 0, len(totals))
	for _, t := range totals {
		bars = append(bars, chart.Value{
			Label: t.Category,
			Value: amountFloat(t),
		})
	}
	bar := chart.BarChart{
		Title:    "Expenses by Category",
		Width:    chartPixelWidth,
		Height:   chartPixelHeight,
		BarWidth: 40,
		Bars:     bars,
	}
	var buf bytes.Buffer
	if err := bar.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Charts) Line(series []analysis.DailyPoint) ([]byte, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("line chart: %w", core.ErrEmptyDataset)
	}
	xs := make([]time.Time, 0, len(series))
	ys := make([]float64, 0, len(series))
	for _, p := range series {
		xs = append(xs, p.Day)
		f, _ := p.Total.Float64()
		ys = append(ys, f)
	}
	line := chart.Chart{
		Title:  "Daily Expense Trend",
		Width:  chartPixelWidth,
		Height: chartPixelHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Total Expenses",
				XValues: xs,
				YValues: ys,
			},
		},
	}
	var buf bytes.Buffer
	if err := line.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render line chart: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Charts) Scatter(txs []core.Transaction) ([]byte, error) {
	byCategory := make(map[string][]core.Transaction)
	var order []string
	for _, tx := range txs {
		if !tx.HasDebit() {
			continue
		}
		if _, ok := byCategory[tx.Category]; !ok {
			order = append(order, tx.Category)
		}
		byCategory[tx.Category] = append(byCategory[tx.Category], tx)
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("scatter chart: %w", core.ErrEmptyDataset)
	}

	series := make([]chart.Series, 0, len(order))
	for _, cat := range order {
		xs := make([]time.Time, 0, len(byCategory[cat]))
		ys := make([]float64, 0, len(byCategory[cat]))
		for _, tx := range byCategory[cat] {
			xs = append(xs, tx.Day())
			f, _ := tx.Debit.Decimal.Float64()
			ys = append(ys, f)
		}
		series = append(series, chart.TimeSeries{
			Name: cat,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
			},
			XValues: xs,
			YValues: ys,
		})
	}

	scatter := chart.Chart{
		Title:  "Transactions",
		Width:  chartPixelWidth,
		Height: chartPixelHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		Series: series,
	}
	var buf bytes.Buffer
	if err := scatter.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render scatter chart: %w", err)
	}
	return buf.Bytes(), nil
}

func amountFloat(t analysis.CategoryTotal) float64 {
	f, _ := t.Amount.Float64()
	return f
}
