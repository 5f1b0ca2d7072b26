package audit

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{
	"Event", "Booking ID", "Room", "User ID", "Organization",
	"Date", "Start Hour", "End Hour", "Recorded At",
}

// ExportOrgToExcel writes the organization's journal as an Excel workbook.
func (j *Journal) ExportOrgToExcel(ctx context.Context, orgID string, w io.Writer) error {
	entries, err := j.EntriesForOrg(ctx, orgID)
	if err != nil {
		return fmt.Errorf("load journal entries: %w", err)
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Booking Events"
	file.SetSheetName("Sheet1", sheet)

	for i, col := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	if style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
		_ = file.SetCellStyle(sheet, startCell, endCell, style)
	}

	for row, e := range entries {
		values := []interface{}{
			e.EventType, e.BookingID, e.RoomName, e.UserID, e.OrgName,
			dateColumn(e.Date), e.StartHour, e.EndHour, e.OccurredAt.Format("2006-01-02 15:04:05"),
		}
		for col, val := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
