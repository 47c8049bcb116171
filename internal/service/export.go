package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"reprasp/internal/models"
)

// ExportSheet is the name of the single sheet in exported workbooks.
const ExportSheet = "Schedule"

// ScheduleLister is the read side of the workflow used by the exporter.
type ScheduleLister interface {
	ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error)
	Location() *time.Location
}

// Exporter renders the schedule as an .xlsx workbook.
type Exporter struct {
	schedule ScheduleLister
	now      func() time.Time
}

func NewExporter(schedule ScheduleLister) *Exporter {
	return &Exporter{schedule: schedule, now: time.Now}
}

// ExportSchedule returns the workbook and a suggested file name. An empty
// schedule still yields a workbook with the header row.
func (e *Exporter) ExportSchedule(ctx context.Context) (*bytes.Buffer, string, error) {
	entries, err := e.schedule.ListSchedule(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("list schedule: %w", err)
	}
	loc := e.schedule.Location()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return nil, "", err
	}
	_ = f.SetColWidth(ExportSheet, "A", "A", 12)
	_ = f.SetColWidth(ExportSheet, "B", "B", 8)
	_ = f.SetColWidth(ExportSheet, "C", "C", 32)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, "", err
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &[]interface{}{"Date", "Time", "Group"}); err != nil {
		return nil, "", err
	}
	_ = f.SetCellStyle(ExportSheet, "A1", "C1", headerStyle)

	for i, entry := range entries {
		local := entry.StartTime.In(loc)
		row := []interface{}{local.Format("02.01.2006"), local.Format("15:04"), entry.GroupName}
		if err := f.SetSheetRow(ExportSheet, cell("A", i+2), &row); err != nil {
			return nil, "", err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	filename := fmt.Sprintf("schedule_%s.xlsx", e.now().In(loc).Format("2006-01-02"))
	return buf, filename, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
