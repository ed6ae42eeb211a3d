package services

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// GenerateAgendaExcel creates an Excel report of the event list: one row per
// event plus a summary block derived from the same numbers the dashboard
// shows. Returns the file contents as a byte slice.
func GenerateAgendaExcel(events []CalendarEvent, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Agenda"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// Column references (A through H).
	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	lastCol := columns[len(columns)-1]

	widths := []float64{34, 24, 18, 18, 14, 12, 12, 12}
	for i, colRef := range columns {
		if err := f.SetColWidth(sheetName, colRef, colRef, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", colRef, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary style: %w", err)
	}

	// ── Title block ─────────────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", "Agenda de Eventos")
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
		return nil, fmt.Errorf("merge subtitle: %w", err)
	}
	f.SetCellValue(sheetName, "A2", "Generado: "+FormatDate(now))
	f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)

	// ── Header row ──────────────────────────────────────────────────────

	headers := []string{"Evento", "Cliente", "Inicio", "Fin", "Estado", "Total", "Seña", "Saldo"}
	for i, h := range headers {
		f.SetCellValue(sheetName, columns[i]+"4", h)
	}
	f.SetCellStyle(sheetName, "A4", lastCol+"4", headerStyle)

	// ── Event rows ──────────────────────────────────────────────────────

	rowNum := 5
	for _, ev := range events {
		rowStr := strconv.Itoa(rowNum)
		f.SetCellValue(sheetName, "A"+rowStr, sanitizeCell(ev.Title))
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeCell(ev.ClientInfo.Name))
		f.SetCellValue(sheetName, "C"+rowStr, FormatDateTime(ev.Start))
		f.SetCellValue(sheetName, "D"+rowStr, FormatDateTime(ev.End))
		f.SetCellValue(sheetName, "E"+rowStr, ev.Status)
		f.SetCellValue(sheetName, "F"+rowStr, ev.ClientInfo.Total)
		f.SetCellValue(sheetName, "G"+rowStr, ev.ClientInfo.Advance)
		f.SetCellValue(sheetName, "H"+rowStr, ev.ClientInfo.Total-ev.ClientInfo.Advance)
		rowNum++
	}

	// ── Summary block ───────────────────────────────────────────────────

	stats := ComputeStats(events, now)
	rowNum++
	summary := []struct {
		label string
		value any
	}{
		{"Eventos totales", stats.TotalEvents},
		{"Ingresos estimados", stats.TotalRevenue},
		{"Saldo pendiente", stats.PendingBalance},
	}
	for _, s := range summary {
		rowStr := strconv.Itoa(rowNum)
		f.SetCellValue(sheetName, "A"+rowStr, s.label)
		f.SetCellValue(sheetName, "B"+rowStr, s.value)
		f.SetCellStyle(sheetName, "A"+rowStr, "A"+rowStr, summaryStyle)
		rowNum++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeCell prevents formula injection by prefixing dangerous leading
// characters with a quote.
func sanitizeCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}
