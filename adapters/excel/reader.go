// Package excel reads exported daily KPI workbooks. Ad platforms hand
// marketers xlsx exports; the CLI turns them into metric series without
// needing a database.
package excel

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"adpulse/domain"
)

// expected column headers, matched case-insensitively on the first row.
var kpiColumns = []string{"date", "impressions", "clicks", "conversions", "spend", "revenue"}

// SeriesReader loads daily KPI rows from the first sheet of a workbook.
type SeriesReader struct {
	path string
}

// NewSeriesReader creates a reader for the given file.
func NewSeriesReader(path string) *SeriesReader {
	return &SeriesReader{path: path}
}

// ReadDailyRows parses the workbook into raw KPI rows. The first row must be
// a header containing at least a date column; missing numeric columns read as
// zero.
func (r *SeriesReader) ReadDailyRows() ([]domain.DailyKPI, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s has no data rows", sheet)
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	var out []domain.DailyKPI
	for i, row := range rows[1:] {
		date, err := parseDate(cell(row, cols["date"]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, domain.DailyKPI{
			Date:        date,
			Impressions: parseNumber(cell(row, cols["impressions"])),
			Clicks:      parseNumber(cell(row, cols["clicks"])),
			Conversions: parseNumber(cell(row, cols["conversions"])),
			Spend:       parseNumber(cell(row, cols["spend"])),
			Revenue:     parseNumber(cell(row, cols["revenue"])),
		})
	}
	return out, nil
}

// ReadSeries reads the workbook and derives one metric series from it.
func (r *SeriesReader) ReadSeries(campaignID string, metric domain.Metric) (domain.MetricSeries, error) {
	rows, err := r.ReadDailyRows()
	if err != nil {
		return domain.MetricSeries{}, err
	}
	return domain.BuildSeries(campaignID, metric, rows)
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int)
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["date"]; !ok {
		return nil, fmt.Errorf("header row has no date column (found: %s)", strings.Join(header, ", "))
	}
	for _, name := range kpiColumns {
		if _, ok := cols[name]; !ok {
			cols[name] = -1
		}
	}
	return cols, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "01/02/2006", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

func parseNumber(raw string) float64 {
	if raw == "" {
		return 0
	}
	cleaned := strings.NewReplacer("$", "", ",", "", "%", "").Replace(raw)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
