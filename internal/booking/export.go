package booking

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportHeaders = []string{
	"Reference", "Property", "Unit", "Guest", "Email", "Phone",
	"Check-in", "Check-out", "Nights", "Total", "Status", "Created",
}

var exportWidths = []float64{22, 24, 24, 24, 30, 18, 12, 12, 8, 14, 12, 20}

func (s *service) Export(ctx context.Context, filter Filter, w io.Writer) error {
	filter.Page, filter.PageSize = 0, 0
	bookings, _, err := s.List(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet failed: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style failed: %w", err)
	}

	// 1. Header row
	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header failed: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header failed: %w", err)
	}
	for i, width := range exportWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(exportSheet, col, col, width); err != nil {
			return fmt.Errorf("set column width failed: %w", err)
		}
	}

	// 2. One row per booking
	for i, b := range bookings {
		total, _ := b.TotalPrice.Round(2).Float64()
		row := []any{
			b.Reference, b.PropertyName, b.UnitName, b.GuestName, b.GuestEmail, b.GuestPhone,
			b.Interval.Start.String(), b.Interval.End.String(), b.Interval.Nights(),
			total, string(b.Status), b.CreatedAt.UTC().Format("2006-01-02 15:04"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write booking %s failed: %w", b.Reference, err)
		}
	}

	// 3. Freeze the header
	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header failed: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook failed: %w", err)
	}
	return nil
}
