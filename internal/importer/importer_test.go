package importer

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Label,Width,Height,Qty\nSign,24,18,50\nBanner,36,12,4\n", ','},
		{"semicolon", "Label;Width;Height;Qty\nSign;24;18;50\nBanner;36;12;4\n", ';'},
		{"tab", "Label\tWidth\tHeight\tQty\nSign\t24\t18\t50\n", '\t'},
		{"pipe", "Label|Width|Height|Qty\nSign|24|18|50\n", '|'},
		{"comma inside labels", "Label;Width;Height;Qty\nSign, large;24;18;50\nSign, small;12;9;50\n", ';'},
		{"too few fields", "Label,Qty\nSign,50\n", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Label", "Width", "Height", "Quantity", "Material"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Label != 0 || mapping.Width != 1 || mapping.Height != 2 || mapping.Quantity != 3 || mapping.Material != 4 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"SUBSTRATE", "Pcs", "H", "W", "Job"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Material != 0 {
		t.Errorf("expected Material at 0, got %d", mapping.Material)
	}
	if mapping.Quantity != 1 {
		t.Errorf("expected Quantity at 1, got %d", mapping.Quantity)
	}
	if mapping.Height != 2 || mapping.Width != 3 {
		t.Errorf("expected Height at 2 and Width at 3, got %+v", mapping)
	}
	if mapping.Label != 4 {
		t.Errorf("expected Label at 4, got %d", mapping.Label)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Yard sign", "24", "18", "50"})

	if isHeader {
		t.Error("expected no header detection for numeric data")
	}
	if mapping.Label != 0 || mapping.Width != 1 || mapping.Height != 2 || mapping.Quantity != 3 || mapping.Material != 4 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Label,Width,Height,Quantity,Material\nYard sign,24,18,50,Coroplast 4mm\nBanner,36,12,4,\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result.Lines))
	}

	first := result.Lines[0]
	if first.Label != "Yard sign" {
		t.Errorf("expected label 'Yard sign', got '%s'", first.Label)
	}
	if first.Request.PieceWidth != 24 || first.Request.PieceHeight != 18 {
		t.Errorf("expected 24x18, got %gx%g", first.Request.PieceWidth, first.Request.PieceHeight)
	}
	if first.Request.Quantity != 50 {
		t.Errorf("expected quantity 50, got %d", first.Request.Quantity)
	}
	if first.Material != "Coroplast 4mm" {
		t.Errorf("expected material 'Coroplast 4mm', got '%s'", first.Material)
	}
	if result.Lines[1].Material != "" {
		t.Errorf("expected empty material, got '%s'", result.Lines[1].Material)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "Yard sign,24,18,50\nBanner,36,12,4\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d (errors: %v)", len(result.Lines), result.Errors)
	}
	if result.Lines[1].Request.PieceWidth != 36 {
		t.Errorf("expected width 36, got %g", result.Lines[1].Request.PieceWidth)
	}
}

func TestImportCSVFromReader_UnknownHeaderSkipped(t *testing.T) {
	data := "Thing,Across,Down,Many\nYard sign,24,18,50\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d (errors: %v)", len(result.Lines), result.Errors)
	}
}

func TestImportCSVFromReader_InchMarks(t *testing.T) {
	data := "Label,Width,Height,Qty\nPlaque,\"11.5\"\"\",8.5in,3\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d (errors: %v)", len(result.Lines), result.Errors)
	}
	if result.Lines[0].Request.PieceWidth != 11.5 || result.Lines[0].Request.PieceHeight != 8.5 {
		t.Errorf("expected 11.5x8.5, got %+v", result.Lines[0].Request)
	}
}

func TestParseDimension_Units(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"24", 24},
		{"24in", 24},
		{`24"`, 24},
		{"2ft", 24},
		{"2'", 24},
		{"609.6mm", 24},
		{"60.96 cm", 24},
		{"24 IN", 24},
	}
	for _, tt := range tests {
		got, err := parseDimension(tt.in)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%q: expected %g, got %g", tt.in, tt.want, got)
		}
	}
	if _, err := parseDimension("wide"); err == nil {
		t.Error("expected error for non-numeric dimension")
	}
}

func TestImportCSVFromReader_SizeColumn(t *testing.T) {
	data := "Job,Size,Qty,Stock\nYard sign,24x18,\"1,000\",Coroplast 4mm\nPlaque,300mm X 200mm,3,\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result.Lines))
	}
	first := result.Lines[0].Request
	if first.PieceWidth != 24 || first.PieceHeight != 18 || first.Quantity != 1000 {
		t.Errorf("expected 24x18 x1000, got %+v", first)
	}
	second := result.Lines[1].Request
	if math.Abs(second.PieceWidth-300/25.4) > 1e-9 || math.Abs(second.PieceHeight-200/25.4) > 1e-9 {
		t.Errorf("expected millimetres converted to inches, got %+v", second)
	}
}

func TestImportCSVFromReader_SizeErrors(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Label,Size,Qty\nSign,24 by 18,5\nBlank,,5\n"), ',')

	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", result.Errors)
	}
	if result.Errors[0] != "Line 2: Invalid size '24 by 18'" {
		t.Errorf("unexpected error %q", result.Errors[0])
	}
	if result.Errors[1] != "Line 3: Missing size value" {
		t.Errorf("unexpected error %q", result.Errors[1])
	}
}

func TestImportCSVFromReader_SizeHeaderNeedsQuantity(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Label,Size\nSign,24x18\n"), ',')

	if len(result.Errors) != 1 || !strings.HasSuffix(result.Errors[0], "header: Quantity") {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"invalid width", "Sign,abc,18,5", "Invalid width"},
		{"missing height", "Sign,24,,5", "Missing height"},
		{"invalid quantity", "Sign,24,18,lots", "Invalid quantity"},
		{"negative width", "Sign,-24,18,5", "must be positive"},
		{"zero quantity", "Sign,24,18,0", "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ImportCSVFromReader(strings.NewReader("Label,Width,Height,Quantity\n"+tt.row+"\n"), ',')
			if len(result.Lines) != 0 {
				t.Errorf("expected no lines, got %d", len(result.Lines))
			}
			if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, result.Errors)
			}
			if !strings.HasPrefix(result.Errors[0], "Line 2:") {
				t.Errorf("error should name the line, got %q", result.Errors[0])
			}
		})
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "Label,Width,Height,Quantity\nGood,24,18,2\nBad,abc,18,2\n\n\nAlsoGood,12,12,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Lines) != 2 {
		t.Errorf("expected 2 valid lines, got %d", len(result.Lines))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d", len(result.Errors))
	}
}

func TestImportCSVFromReader_EmptyLabel(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Label,Width,Height,Quantity\n,24,18,2\n"), ',')

	if len(result.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(result.Lines))
	}
	if result.Lines[0].Label != "Item 1" {
		t.Errorf("expected auto-generated label 'Item 1', got '%s'", result.Lines[0].Label)
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Label,Width,Material\nSign,24,Acrylic\n"), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Required columns not found in header: Height, Quantity") {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── CSV File Import Tests ──────────────────────────────────

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	content := "Label;Width;Height;Quantity\nSign;24;18;2\nDecal;6;4;300\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportFile(path)

	if len(result.Lines) != 2 {
		t.Errorf("expected 2 lines, got %d (errors: %v)", len(result.Lines), result.Errors)
	}
	hasSemicolonWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			hasSemicolonWarning = true
		}
	}
	if !hasSemicolonWarning {
		t.Error("expected warning about semicolon delimiter detection")
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/path/file.csv")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Qty", "Width", "Height", "Stock"},
		{"Yard sign", 50, 24, 18, "Coroplast 4mm"},
		{"Plaque", 3, 11.5, 8.5, "Acrylic 1/8"},
	})

	result := ImportFile(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result.Lines))
	}
	if result.Lines[0].Request.Quantity != 50 {
		t.Errorf("expected quantity 50, got %d", result.Lines[0].Request.Quantity)
	}
	if result.Lines[1].Request.PieceWidth != 11.5 {
		t.Errorf("expected width 11.5, got %g", result.Lines[1].Request.PieceWidth)
	}
	if result.Lines[1].Material != "Acrylic 1/8" {
		t.Errorf("expected material 'Acrylic 1/8', got '%s'", result.Lines[1].Material)
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Yard sign", 24, 18, 50},
		{"Banner", 36, 12, 4},
	})

	result := ImportExcel(path)

	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d (errors: %v)", len(result.Lines), result.Errors)
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Label", "Width", "Height", "Quantity"},
		{"Sign", "wide", 18, 2},
	})

	result := ImportExcel(path)

	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Row 2:") {
		t.Errorf("expected one Row 2 error, got %v", result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/file.xlsx")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}
