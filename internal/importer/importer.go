// Package importer reads batches of quote requests from CSV and Excel files.
// Columns are found by header name or, without a header, by position:
// label, width, height, quantity, material.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SheetNest/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Lines    []model.QuoteLine
	Errors   []string
	Warnings []string
}

// ColumnMapping is the index of each field in a row, -1 when absent.
// Size holds both dimensions in one cell, e.g. 24x18.
type ColumnMapping struct {
	Label    int
	Width    int
	Height   int
	Size     int
	Quantity int
	Material int
}

// positional is the layout assumed for files without a header row.
var positional = ColumnMapping{Label: 0, Width: 1, Height: 2, Size: -1, Quantity: 3, Material: 4}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":    {"label", "name", "job", "description", "desc", "piece", "item"},
	"width":    {"width", "w", "width (in)", "width in", "x"},
	"height":   {"height", "h", "height (in)", "height in", "length", "y"},
	"size":     {"size", "dimensions", "dims", "finished size"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"material": {"material", "stock", "substrate", "sheet", "media"},
}

// missing names the required fields the mapping cannot supply.
func (m ColumnMapping) missing() []string {
	var out []string
	if m.Size == -1 {
		if m.Width == -1 {
			out = append(out, "Width")
		}
		if m.Height == -1 {
			out = append(out, "Height")
		}
	}
	if m.Quantity == -1 {
		out = append(out, "Quantity")
	}
	return out
}

// minQuoteFields is the fewest cells a row needs to describe a quote line.
const minQuoteFields = 3

var delimiterNames = map[rune]string{',': "comma", ';': "semicolon", '\t': "tab", '|': "pipe"}

// DetectCSVDelimiter picks the delimiter under which the most rows split
// into the same number of cells as the first row, with enough cells for a
// quote line. Ties go to the wider split, then to the order comma,
// semicolon, tab, pipe.
func DetectCSVDelimiter(data []byte) rune {
	best, bestRows, bestCols := ',', 0, 0
	for _, delim := range []rune{',', ';', '\t', '|'} {
		records, err := readCSV(bytes.NewReader(data), delim)
		if err != nil || len(records) == 0 {
			continue
		}
		cols := len(records[0])
		if cols < minQuoteFields {
			continue
		}
		rows := 0
		for _, rec := range records {
			if len(rec) == cols {
				rows++
			}
		}
		if rows > bestRows || (rows == bestRows && cols > bestCols) {
			best, bestRows, bestCols = delim, rows, cols
		}
	}
	return best
}

func readCSV(r io.Reader, delim rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr.ReadAll()
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Width: -1, Height: -1, Size: -1, Quantity: -1, Material: -1}
	slots := map[string]*int{
		"label":    &mapping.Label,
		"width":    &mapping.Width,
		"height":   &mapping.Height,
		"size":     &mapping.Size,
		"quantity": &mapping.Quantity,
		"material": &mapping.Material,
	}

	found := false
	for i, cell := range row {
		role, ok := columnRole(cell)
		if !ok {
			continue
		}
		found = true
		if slot := slots[role]; *slot == -1 {
			*slot = i
		}
	}
	if !found {
		return positional, false
	}
	return mapping, true
}

func columnRole(cell string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(cell))
	for role, aliases := range headerAliases {
		for _, alias := range aliases {
			if name == alias {
				return role, true
			}
		}
	}
	return "", false
}

// unitFactors converts a dimension suffix to inches; the first match wins.
var unitFactors = []struct {
	suffix string
	factor float64
}{
	{"mm", 1 / 25.4},
	{"cm", 1 / 2.54},
	{"ft", 12},
	{"in", 1},
	{`"`, 1},
	{"'", 12},
}

// parseDimension reads a length in inches. A trailing unit of in, ", ft, ',
// mm or cm is converted.
func parseDimension(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	factor := 1.0
	for _, u := range unitFactors {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			factor = u.factor
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v * factor, nil
}

// parseSize splits a combined cell such as 24x18 or 600mm X 450mm.
func parseSize(s string) (w, h float64, err error) {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == 'x' || r == '×' || r == '*' })
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected WIDTHxHEIGHT, got %q", s)
	}
	if w, err = parseDimension(parts[0]); err != nil {
		return 0, 0, err
	}
	if h, err = parseDimension(parts[1]); err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// parseQuantity accepts whole numbers with optional thousands separators.
func parseQuantity(s string) (int, error) {
	return strconv.Atoi(strings.NewReplacer(",", "", "_", "", " ", "").Replace(s))
}

// rowError is a problem with one input row. It prints as "Line 4: ...".
type rowError struct {
	where string
	msg   string
}

func (e rowError) Error() string { return e.where + ": " + e.msg }

// lineParser turns rows into quote lines with a fixed column mapping.
type lineParser struct {
	mapping ColumnMapping
	unit    string // "Line" for CSV, "Row" for Excel
	parsed  int
}

func (p *lineParser) cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (p *lineParser) dimensions(row []string, where string) (float64, float64, error) {
	if p.mapping.Size != -1 {
		if s := p.cell(row, p.mapping.Size); s != "" {
			w, h, err := parseSize(s)
			if err != nil {
				return 0, 0, rowError{where, fmt.Sprintf("Invalid size '%s'", s)}
			}
			return w, h, nil
		}
		if p.mapping.Width == -1 {
			return 0, 0, rowError{where, "Missing size value"}
		}
	}

	var dims [2]float64
	for i, f := range []struct {
		name string
		col  int
	}{{"width", p.mapping.Width}, {"height", p.mapping.Height}} {
		s := p.cell(row, f.col)
		if s == "" {
			return 0, 0, rowError{where, fmt.Sprintf("Missing %s value", f.name)}
		}
		v, err := parseDimension(s)
		if err != nil {
			return 0, 0, rowError{where, fmt.Sprintf("Invalid %s '%s'", f.name, s)}
		}
		dims[i] = v
	}
	return dims[0], dims[1], nil
}

// parse reads row n (1-based, as shown to the user).
func (p *lineParser) parse(row []string, n int) (model.QuoteLine, error) {
	where := fmt.Sprintf("%s %d", p.unit, n)

	w, h, err := p.dimensions(row, where)
	if err != nil {
		return model.QuoteLine{}, err
	}

	qtyStr := p.cell(row, p.mapping.Quantity)
	if qtyStr == "" {
		return model.QuoteLine{}, rowError{where, "Missing quantity value"}
	}
	qty, err := parseQuantity(qtyStr)
	if err != nil {
		return model.QuoteLine{}, rowError{where, fmt.Sprintf("Invalid quantity '%s'", qtyStr)}
	}

	label := p.cell(row, p.mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Item %d", p.parsed+1)
	}
	line := model.NewQuoteLine(label, w, h, qty)
	if err := line.Request.Validate(); err != nil {
		return model.QuoteLine{}, rowError{where, "Width, height, and quantity must be positive"}
	}
	line.Material = p.cell(row, p.mapping.Material)
	p.parsed++
	return line, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportFile picks the CSV or Excel importer from the file extension.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx":
		return ImportExcel(path)
	default:
		return ImportCSV(path)
	}
}

// ImportCSV imports quote lines from a CSV file, detecting the delimiter.
func ImportCSV(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}

	delim := DetectCSVDelimiter(data)
	var warnings []string
	if delim != ',' {
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimiterNames[delim]))
	}
	return importCSV(bytes.NewReader(data), delim, warnings)
}

// ImportCSVFromReader imports quote lines from a CSV reader with a known delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	return importCSV(r, delimiter, nil)
}

func importCSV(r io.Reader, delim rune, warnings []string) ImportResult {
	records, err := readCSV(r, delim)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importRows(records, "Line", warnings)
}

// ImportExcel imports quote lines from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open Excel file: %v", err)}}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{Errors: []string{"Excel file has no sheets"}}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read Excel data: %v", err)}}
	}
	return importRows(rows, "Row", nil)
}

// importRows maps the columns from the first row and parses the rest.
// A first row that is neither a known header nor a parsable quote line is
// treated as an unrecognised header and skipped.
func importRows(rows [][]string, unit string, warnings []string) ImportResult {
	res := ImportResult{Warnings: warnings}
	if len(rows) == 0 {
		res.Errors = append(res.Errors, "File is empty")
		return res
	}

	mapping, header := DetectColumns(rows[0])
	if header {
		if missing := mapping.missing(); len(missing) > 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return res
		}
	} else if len(rows[0]) >= minQuoteFields {
		_, err := parseDimension(rows[0][positional.Width])
		header = err != nil
	}

	body := rows
	if header {
		body = rows[1:]
		res.Warnings = append(res.Warnings, "Detected header row, skipping")
	}
	skipped := len(rows) - len(body)

	p := &lineParser{mapping: mapping, unit: unit}
	for i, row := range body {
		if isBlank(row) {
			continue
		}
		line, err := p.parse(row, skipped+i+1)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		res.Lines = append(res.Lines, line)
	}
	return res
}
