package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportRowError represents a single field-level error on one uploaded row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult summarizes an uploaded catalog file after validation.
type ImportResult struct {
	TotalRows int              `json:"total_rows"`
	Imported  int              `json:"imported"`
	Errors    []ImportRowError `json:"errors"`
}

// catalog import columns, matched case-insensitively against the header row
var importHeaderAliases = map[string]string{
	"servicio":  "name",
	"nombre":    "name",
	"precio":    "price",
	"descuento": "discount",
	"desc":      "discount",
	"desc. %":   "discount",
}

// parseCSV reads a CSV file and returns headers plus data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers plus data rows from the
// first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapImportHeaders maps uploaded column headers to candidate field keys.
// Unrecognized columns are ignored so exported files with extra columns
// still import.
func mapImportHeaders(headers []string) []string {
	mapped := make([]string, len(headers))
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSuffix(norm, " *")
		norm = strings.TrimSpace(norm)
		mapped[i] = importHeaderAliases[norm]
	}
	return mapped
}

// ImportRow pairs a parsed candidate with its spreadsheet row number.
type ImportRow struct {
	Row       int
	Candidate CatalogCandidate
}

// ParseCatalogFile parses an uploaded CSV or xlsx catalog file into
// candidates, one per data row. Row numbers are 1-based and count the
// header, matching what the user sees in a spreadsheet.
func ParseCatalogFile(file io.Reader, fileName string) ([]ImportRow, []ImportRowError, error) {
	var headers []string
	var rows [][]string
	var err error

	switch {
	case strings.HasSuffix(strings.ToLower(fileName), ".csv"):
		headers, rows, err = parseCSV(file)
	case strings.HasSuffix(strings.ToLower(fileName), ".xlsx"):
		headers, rows, err = parseExcel(file)
	default:
		return nil, nil, fmt.Errorf("unsupported file type, expected .csv or .xlsx")
	}
	if err != nil {
		return nil, nil, err
	}

	mapped := mapImportHeaders(headers)
	hasName := false
	hasPrice := false
	for _, key := range mapped {
		if key == "name" {
			hasName = true
		}
		if key == "price" {
			hasPrice = true
		}
	}
	if !hasName || !hasPrice {
		return nil, nil, fmt.Errorf("file must contain the columns servicio and precio")
	}

	candidates := make([]ImportRow, 0, len(rows))
	var rowErrors []ImportRowError
	for i, row := range rows {
		rowNum := i + 2 // header is row 1

		var cand CatalogCandidate
		for col, key := range mapped {
			if col >= len(row) {
				continue
			}
			val := strings.TrimSpace(row[col])
			switch key {
			case "name":
				cand.Name = val
			case "price":
				cand.Price = val
			case "discount":
				cand.Discount = val
			}
		}

		if cand.Name == "" && cand.Price == "" {
			continue // blank row
		}
		if cand.Name == "" {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "servicio", Message: "no puede estar vacío"})
			continue
		}
		if cand.Price == "" {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "precio", Message: "no puede estar vacío"})
			continue
		}
		candidates = append(candidates, ImportRow{Row: rowNum, Candidate: cand})
	}

	return candidates, rowErrors, nil
}

// Import adds every parsed candidate through the regular add path, so the
// same validation and local/remote routing applies. Rows that fail
// validation are reported per row and do not stop the rest.
func (c *Catalog) Import(rows []ImportRow, parseErrors []ImportRowError) ImportResult {
	result := ImportResult{
		TotalRows: len(rows) + len(parseErrors),
		Errors:    parseErrors,
	}

	for _, row := range rows {
		if err := c.Add(row.Candidate); err != nil {
			rowErr := ImportRowError{Row: row.Row, Message: err.Error()}
			var vErr *ValidationError
			if errors.As(err, &vErr) {
				rowErr.Field = vErr.Field
				rowErr.Message = vErr.Reason
			}
			result.Errors = append(result.Errors, rowErr)
			continue
		}
		result.Imported++
	}
	return result
}
