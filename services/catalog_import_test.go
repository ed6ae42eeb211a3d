package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCatalogFile_CSV(t *testing.T) {
	csvData := "Servicio,Precio,Descuento\nDJ,150000,10\nLuces,80000,\n"

	rows, rowErrors, err := ParseCatalogFile(strings.NewReader(csvData), "servicios.csv")
	if err != nil {
		t.Fatalf("ParseCatalogFile() error: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("expected no row errors, got %v", rowErrors)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(rows))
	}
	if rows[0].Candidate.Name != "DJ" || rows[0].Candidate.Price != "150000" || rows[0].Candidate.Discount != "10" {
		t.Errorf("first candidate = %+v", rows[0].Candidate)
	}
	if rows[0].Row != 2 {
		t.Errorf("first data row number = %d, want 2", rows[0].Row)
	}
}

func TestParseCatalogFile_IgnoresUnknownColumnsAndBlankRows(t *testing.T) {
	csvData := "Servicio,Precio,Notas\nDJ,150000,algo\n,,\nLuces,80000,\n"

	rows, rowErrors, err := ParseCatalogFile(strings.NewReader(csvData), "servicios.csv")
	if err != nil {
		t.Fatalf("ParseCatalogFile() error: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("expected no row errors, got %v", rowErrors)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 candidates (blank row skipped), got %d", len(rows))
	}
}

func TestParseCatalogFile_MissingRequiredColumn(t *testing.T) {
	csvData := "Servicio,Descuento\nDJ,10\n"

	if _, _, err := ParseCatalogFile(strings.NewReader(csvData), "servicios.csv"); err == nil {
		t.Error("expected an error for a file without a precio column")
	}
}

func TestParseCatalogFile_ReportsIncompleteRows(t *testing.T) {
	csvData := "Servicio,Precio\nDJ,150000\n,99\nSonido,\n"

	rows, rowErrors, err := ParseCatalogFile(strings.NewReader(csvData), "servicios.csv")
	if err != nil {
		t.Fatalf("ParseCatalogFile() error: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 valid candidate, got %d", len(rows))
	}
	if len(rowErrors) != 2 {
		t.Fatalf("expected 2 row errors, got %v", rowErrors)
	}
	if rowErrors[0].Row != 3 || rowErrors[0].Field != "servicio" {
		t.Errorf("first error = %+v, want row 3 servicio", rowErrors[0])
	}
	if rowErrors[1].Row != 4 || rowErrors[1].Field != "precio" {
		t.Errorf("second error = %+v, want row 4 precio", rowErrors[1])
	}
}

func TestParseCatalogFile_UnsupportedExtension(t *testing.T) {
	if _, _, err := ParseCatalogFile(strings.NewReader("x"), "servicios.txt"); err == nil {
		t.Error("expected an error for an unsupported file type")
	}
}

func TestParseCatalogFile_Excel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "Servicio")
	f.SetCellValue(sheet, "B1", "Precio")
	f.SetCellValue(sheet, "A2", "Animación")
	f.SetCellValue(sheet, "B2", 60000)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("could not build test xlsx: %v", err)
	}

	rows, rowErrors, err := ParseCatalogFile(&buf, "servicios.xlsx")
	if err != nil {
		t.Fatalf("ParseCatalogFile() error: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("expected no row errors, got %v", rowErrors)
	}
	if len(rows) != 1 || rows[0].Candidate.Name != "Animación" {
		t.Fatalf("candidates = %+v", rows)
	}
}

func TestCatalogImport_RoutesThroughValidation(t *testing.T) {
	backend := &fakeCatalogBackend{}
	kv := NewMemoryKV()
	cat := NewCatalog(backend, kv, nil)
	if err := cat.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	rows := []ImportRow{
		{Row: 2, Candidate: CatalogCandidate{Name: "DJ", Price: "150000"}},
		{Row: 3, Candidate: CatalogCandidate{Name: "Malo", Price: "gratis"}},
	}
	result := cat.Import(rows, []ImportRowError{{Row: 4, Field: "servicio", Message: "no puede estar vacío"}})

	if result.TotalRows != 3 {
		t.Errorf("TotalRows = %d, want 3", result.TotalRows)
	}
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", result.Errors)
	}

	// the valid row landed in the local catalog
	if len(cat.Entries()) != 1 || cat.Entries()[0].Name != "DJ" {
		t.Errorf("entries = %+v", cat.Entries())
	}
}
