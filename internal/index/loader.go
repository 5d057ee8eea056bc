package index

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// metadataSheets are workbook sheets that never hold the caption table.
var metadataSheets = map[string]bool{
	"info":     true,
	"metadata": true,
	"about":    true,
	"readme":   true,
	"notes":    true,
}

// Load reads the index at path. The file is opened, fully read and closed
// before Load returns. Failures to read the file or find the required
// columns return a *LoadError; per-record problems only mark rows Malformed.
func Load(path string, opts Options) (*Index, error) {
	opts = opts.withDefaults()
	format := DetectFormat(path)

	var (
		header  []string
		records []record
		sheet   string
		err     error
	)
	switch format {
	case FormatXLSX:
		header, records, sheet, err = readWorkbook(path)
	default:
		header, records, err = readDelimited(path, format == FormatTSV)
	}
	if err != nil {
		return nil, err
	}

	imgCol, capCol, err := locateColumns(header, opts)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "header", Err: err}
	}

	ix := &Index{
		Path:   path,
		Format: format,
		Header: header,
		Sheet:  sheet,
		Rows:   make([]Row, 0, len(records)),
		imgCol: imgCol,
		capCol: capCol,
	}
	for _, rec := range records {
		ix.Rows = append(ix.Rows, buildRow(rec, imgCol, capCol))
	}
	return ix, nil
}

// record is one raw data record before column selection.
type record struct {
	line     int
	fields   []string
	parseErr error
}

func buildRow(rec record, imgCol, capCol int) Row {
	row := Row{Line: rec.line}
	if rec.parseErr != nil {
		row.Malformed = true
		row.MalformedReason = rec.parseErr.Error()
		return row
	}
	row.ImagePath = field(rec.fields, imgCol)
	row.Caption = field(rec.fields, capCol)

	switch {
	case !utf8.ValidString(row.ImagePath), strings.ContainsRune(row.ImagePath, utf8.RuneError):
		row.Malformed = true
		row.MalformedReason = "image path is not valid UTF-8"
	case strings.ContainsRune(row.ImagePath, 0):
		row.Malformed = true
		row.MalformedReason = "image path contains NUL"
	}
	return row
}

// field returns fields[i], or "" for short rows.
func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// locateColumns matches header names trimmed and case-insensitively.
func locateColumns(header []string, opts Options) (int, int, error) {
	imgCol, capCol := -1, -1
	wantImg := strings.TrimSpace(opts.ImageColumn)
	wantCap := strings.TrimSpace(opts.CaptionColumn)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if imgCol < 0 && strings.EqualFold(name, wantImg) {
			imgCol = i
		}
		if capCol < 0 && strings.EqualFold(name, wantCap) {
			capCol = i
		}
	}
	var missing []string
	if imgCol < 0 {
		missing = append(missing, wantImg)
	}
	if capCol < 0 {
		missing = append(missing, wantCap)
	}
	if len(missing) > 0 {
		return 0, 0, fmt.Errorf("%w: %s (have %s)", ErrMissingColumn,
			strings.Join(missing, ", "), strings.Join(header, ", "))
	}
	return imgCol, capCol, nil
}

// readDelimited reads a CSV or TSV file. A UTF-8 (or UTF-16) BOM is
// honored and stripped so the first header name matches.
func readDelimited(path string, tsv bool) ([]string, []record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	r := csv.NewReader(transform.NewReader(bufio.NewReaderSize(f, 1<<20), dec))
	if tsv {
		r.Comma = '\t'
	}
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, &LoadError{Path: path, Op: "read", Err: ErrEmptyIndex}
	}
	if err != nil {
		return nil, nil, &LoadError{Path: path, Op: "read", Err: err}
	}
	header = append([]string(nil), header...)

	var records []record
	line := 1
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				records = append(records, record{line: line, parseErr: pe})
				continue
			}
			return nil, nil, &LoadError{Path: path, Op: "read", Err: err}
		}
		records = append(records, record{line: line, fields: fields})
	}
	return header, records, nil
}

// readWorkbook reads the first non-metadata sheet of an XLSX workbook. If
// every sheet looks like metadata, the last one is used.
func readWorkbook(path string) ([]string, []record, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, "", &LoadError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, "", &LoadError{Path: path, Op: "read", Err: ErrEmptyIndex}
	}
	sheet := ""
	for _, s := range sheets {
		if !metadataSheets[strings.ToLower(strings.TrimSpace(s))] {
			sheet = s
			break
		}
	}
	if sheet == "" {
		sheet = sheets[len(sheets)-1]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, "", &LoadError{Path: path, Op: "read", Err: err}
	}
	if len(rows) == 0 {
		return nil, nil, "", &LoadError{Path: path, Op: "read", Err: ErrEmptyIndex}
	}

	records := make([]record, 0, len(rows)-1)
	for i, fields := range rows[1:] {
		records = append(records, record{line: i + 2, fields: fields})
	}
	return rows[0], records, sheet, nil
}
