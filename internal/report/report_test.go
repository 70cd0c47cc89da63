package report

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"
	"time"

	"clearspend/internal/analysis"
	"clearspend/internal/core"

	"github.com/shopspring/decimal"
)

func debitTx(day int, details, category string, amount float64) core.Transaction {
	return core.Transaction{
		Date:     time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Details:  details,
		Category: category,
		Debit:    core.Amount(decimal.NewFromFloat(amount)),
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// stubRenderer returns a fixed PNG for every chart, failing from failAt
// onward ("" disables failures).
type stubRenderer struct {
	img    []byte
	failAt string
	calls  []string
}

func (s *stubRenderer) render(name string) ([]byte, error) {
	s.calls = append(s.calls, name)
	if s.failAt != "" && name == s.failAt {
		return nil, errors.New("render failed")
	}
	return s.img, nil
}

func (s *stubRenderer) Pie([]analysis.CategoryTotal) ([]byte, error) { return s.render("pie") }
func (s *stubRenderer) Bar([]analysis.CategoryTotal) ([]byte, error) { return s.render("bar") }
func (s *stubRenderer) Line([]analysis.DailyPoint) ([]byte, error)   { return s.render("line") }
func (s *stubRenderer) Scatter([]core.Transaction) ([]byte, error)   { return s.render("scatter") }

func TestGeneratePDF(t *testing.T) {
	txs := []core.Transaction{
		debitTx(1, "TESCO", "Groceries", 20),
		debitTx(2, "NETFLIX", "Entertainment", 12.99),
	}
	r := &stubRenderer{img: pngBytes(t)}

	out, err := Generate(txs, r)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
	want := []string{"pie", "bar", "line", "scatter"}
	if len(r.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", r.calls, want)
	}
	for i := range want {
		if r.calls[i] != want[i] {
			t.Fatalf("chart order = %v, want %v", r.calls, want)
		}
	}
}

func TestGenerateSkipsChartsWithoutDebits(t *testing.T) {
	txs := []core.Transaction{{
		Date:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Details:  "SALARY",
		Category: core.CategoryIncome,
		Credit:   core.Amount(decimal.NewFromInt(1000)),
	}}
	r := &stubRenderer{img: pngBytes(t)}

	out, err := Generate(txs, r)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
	if len(r.calls) != 0 {
		t.Fatalf("renderer must not be called without debit rows, got %v", r.calls)
	}
}

func TestGenerateCleansUpTempFilesOnFailure(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	txs := []core.Transaction{debitTx(1, "TESCO", "Groceries", 20)}
	r := &stubRenderer{img: pngBytes(t), failAt: "line"}

	if _, err := Generate(txs, r); err == nil {
		t.Fatal("expected mid-generation failure")
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("temp chart files left behind: %v", entries)
	}
}

func TestWriteCSV(t *testing.T) {
	txs := []core.Transaction{
		debitTx(1, "TESCO", "Groceries", 20),
		{
			Date:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Details:  "SALARY, JANUARY",
			Category: core.CategoryIncome,
			Credit:   core.Amount(decimal.NewFromInt(1000)),
			Balance:  core.Amount(decimal.NewFromFloat(1980)),
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, txs); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "Date,Details,Debit,Credit,Balance,Category" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "01-Jan-24,TESCO,20.00,,,Groceries" {
		t.Fatalf("row 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], `"SALARY, JANUARY"`) {
		t.Fatalf("row 2 must quote the comma: %q", lines[2])
	}
	if !strings.HasSuffix(lines[2], "Income / Receivables") {
		t.Fatalf("row 2 = %q", lines[2])
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"35", "35.00"},
		{"1234.5", "1,234.50"},
		{"1234567.89", "1,234,567.89"},
		{"-965", "-965.00"},
	}
	for _, tc := range cases {
		d, _ := decimal.NewFromString(tc.in)
		if got := formatAmount(d); got != tc.want {
			t.Fatalf("formatAmount(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
