package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"ChartSentinel/internal/customerrors"
	"ChartSentinel/internal/model"
)

const (
	SeriesSheet = "Series"
	PivotSheet  = "Pivots"
)

var seriesHeader = []interface{}{
	"Date", "Open", "High", "Low", "Close", "Volume",
	"RSI", "SMA20", "SMA50", "SMA200",
	"DonchianUpper", "DonchianMiddle", "DonchianLower",
}

// WriteSeries writes the display window of s and its indicator columns as an
// XLSX workbook. Unavailable indicator values are left blank.
func WriteSeries(s *model.Series, w io.Writer) error {
	f, err := buildWorkbook(s)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveSeries writes the workbook to path.
func SaveSeries(s *model.Series, path string) error {
	f, err := buildWorkbook(s)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func buildWorkbook(s *model.Series) (*excelize.File, error) {
	if s == nil || s.Len() == 0 {
		return nil, fmt.Errorf("export: empty series: %w", customerrors.ErrDataUnavailable)
	}
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SeriesSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSeriesSheet(f, s); err != nil {
		f.Close()
		return nil, err
	}
	if err := writePivotSheet(f, s); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeSeriesSheet(f *excelize.File, s *model.Series) error {
	if err := f.SetSheetRow(SeriesSheet, "A1", &seriesHeader); err != nil {
		return err
	}
	for i, b := range s.Bars {
		row := []interface{}{
			b.Time.Format("2006-01-02"), b.Open, b.High, b.Low, b.Close, b.Volume,
			cell(s.RSI, i), cell(s.SMA20, i), cell(s.SMA50, i), cell(s.SMA200, i),
			cell(s.DonchianUpper, i), cell(s.DonchianMiddle, i), cell(s.DonchianLower, i),
		}
		ref, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SeriesSheet, ref, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return f.SetPanes(SeriesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writePivotSheet(f *excelize.File, s *model.Series) error {
	if _, err := f.NewSheet(PivotSheet); err != nil {
		return err
	}
	lv := s.Pivots
	rows := [][]interface{}{
		{"Symbol", s.Symbol},
		{"Pivot", lv.Pivot},
		{"R1", lv.R1},
		{"R2", lv.R2},
		{"S1", lv.S1},
		{"S2", lv.S2},
	}
	for i, row := range rows {
		ref, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(PivotSheet, ref, &row); err != nil {
			return err
		}
	}
	return nil
}

// cell returns nil for missing or NaN values so the cell stays empty.
func cell(col []float64, i int) interface{} {
	if i >= len(col) || math.IsNaN(col[i]) || math.IsInf(col[i], 0) {
		return nil
	}
	return col[i]
}
