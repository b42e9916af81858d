package metrics

import (
	"bytes"
	"fmt"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook, in tab order
const (
	SheetWorkers      = "Workers"
	SheetWorkstations = "Workstations"
	SheetFactory      = "Factory"
	SheetAssumptions  = "Assumptions"
)

var workerExportHeader = []string{
	"Worker ID",
	"Name",
	"Active (min)",
	"Idle (min)",
	"Absent (min)",
	"Utilization %",
	"Units Produced",
	"Units / Hour",
}

var workstationExportHeader = []string{
	"Station ID",
	"Name",
	"Type",
	"Occupancy (min)",
	"Utilization %",
	"Units Produced",
	"Throughput / Hour",
}

// sheetData one sheet worth of rows under a header
type sheetData struct {
	name   string
	header []string
	rows   [][]interface{}
	widths []float64
}

// ExportXLSX renders the report as a workbook with one sheet per view
func ExportXLSX(r *Report) ([]byte, error) {
	sheets := []sheetData{
		workerSheet(r),
		workstationSheet(r),
		factorySheet(r),
		assumptionsSheet(r),
	}

	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to rename default sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, s sheetData, headerStyle int) error {
	for col, h := range s.header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(s.name, cell, h); err != nil {
			return fmt.Errorf("failed to set header cell %s!%s: %w", s.name, cell, err)
		}
		if err := f.SetCellStyle(s.name, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, w := range s.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(s.name, col, col, w); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		row := row
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", s.name, i+2, err)
		}
	}

	// freeze header
	if err := f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}
	return nil
}

func workerSheet(r *Report) sheetData {
	s := sheetData{
		name:   SheetWorkers,
		header: workerExportHeader,
		widths: []float64{12, 24, 14, 12, 14, 14, 16, 14},
	}
	for _, w := range r.Workers {
		s.rows = append(s.rows, []interface{}{
			w.WorkerID,
			w.Name,
			w.TotalActiveTimeMinutes,
			w.TotalIdleTimeMinutes,
			w.TotalAbsentTimeMinutes,
			w.UtilizationPercentage,
			w.TotalUnitsProduced,
			w.UnitsPerHour,
		})
	}
	return s
}

func workstationSheet(r *Report) sheetData {
	s := sheetData{
		name:   SheetWorkstations,
		header: workstationExportHeader,
		widths: []float64{12, 24, 14, 16, 14, 16, 18},
	}
	for _, ws := range r.Workstations {
		s.rows = append(s.rows, []interface{}{
			ws.StationID,
			ws.Name,
			domain.StationTypeLabel(ws.Type),
			ws.OccupancyTimeMinutes,
			ws.UtilizationPercentage,
			ws.TotalUnitsProduced,
			ws.ThroughputRate,
		})
	}
	return s
}

// factorySheet key/value layout, one metric per row
func factorySheet(r *Report) sheetData {
	fm := r.Factory
	return sheetData{
		name:   SheetFactory,
		header: []string{"Metric", "Value"},
		widths: []float64{32, 14},
		rows: [][]interface{}{
			{"Total Productive Time (min)", fm.TotalProductiveTimeMinutes},
			{"Total Production Count", fm.TotalProductionCount},
			{"Average Production Rate (units/h)", fm.AverageProductionRate},
			{"Average Utilization %", fm.AverageUtilization},
			{"Total Workers", fm.TotalWorkers},
			{"Total Workstations", fm.TotalWorkstations},
			{"Total Events", fm.TotalEvents},
		},
	}
}

func assumptionsSheet(r *Report) sheetData {
	a := r.Assumptions
	s := sheetData{
		name:   SheetAssumptions,
		header: []string{"Assumption", "Value"},
		widths: []float64{24, 90},
		rows: [][]interface{}{
			{"Interval (min)", a.IntervalMinutes},
			{"Shift (hours)", a.ShiftHours},
		},
	}
	for _, n := range a.Notes {
		s.rows = append(s.rows, []interface{}{"Note", n})
	}
	return s
}
