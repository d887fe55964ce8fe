package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sheetsage/sheetsage-ai-go/internal/models"
	"github.com/sheetsage/sheetsage-ai-go/internal/utils"
)

// xlsxMagic is the ZIP local-file-header signature that opens an XLSX container.
var xlsxMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// Parser converts raw document bytes into normalized per-sheet row records.
type Parser struct {
	logger *logrus.Logger
}

// New creates a Parser.
func New(logger *logrus.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse converts raw bytes into sheet tables. Rows are header-to-value maps
// with blanks normalized to empty strings; sheets with zero data rows are
// dropped. Returns ParseError if the bytes are not a recognized
// spreadsheet/CSV container, NoData if every sheet ends up empty.
func (p *Parser) Parse(doc *models.RawDocument) ([]models.SheetTable, error) {
	if len(doc.Bytes) == 0 {
		return nil, utils.NewPipelineError(utils.FailureParseError, "document has no bytes")
	}

	var sheets []models.SheetTable
	var err error
	if bytes.HasPrefix(doc.Bytes, xlsxMagic) {
		sheets, err = p.parseWorkbook(doc.Bytes)
	} else {
		sheets, err = p.parseDelimited(doc.Bytes, doc.Filename)
	}
	if err != nil {
		return nil, err
	}

	if len(sheets) == 0 {
		return nil, utils.NewPipelineError(utils.FailureNoData, "every sheet is empty")
	}

	p.logger.WithFields(logrus.Fields{
		"sheets": len(sheets),
	}).Info("Document parsed")

	return sheets, nil
}

// parseWorkbook extracts all non-empty sheets of an XLSX workbook.
func (p *Parser) parseWorkbook(data []byte) ([]models.SheetTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, utils.WrapPipelineError(utils.FailureParseError, "not a readable spreadsheet container", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			p.logger.Warnf("Failed to close workbook: %v", closeErr)
		}
	}()

	var sheets []models.SheetTable
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			p.logger.WithFields(logrus.Fields{"sheet": sheetName}).Warnf("Failed to read sheet, skipping: %v", err)
			continue
		}
		table, ok := buildTable(sheetName, rows)
		if !ok {
			continue
		}
		sheets = append(sheets, table)
	}

	return sheets, nil
}

// parseDelimited reads CSV or TSV bytes as a single sheet named after the file.
func (p *Parser) parseDelimited(data []byte, filename string) ([]models.SheetTable, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, utils.WrapPipelineError(utils.FailureParseError, "unreadable text encoding", err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, utils.WrapPipelineError(utils.FailureParseError, "not a readable delimited file", err)
		}
		records = append(records, record)
	}

	sheetName := sheetNameFromFilename(filename)
	table, ok := buildTable(sheetName, records)
	if !ok {
		return nil, nil
	}
	return []models.SheetTable{table}, nil
}

// buildTable converts a grid into a header-keyed table. The first row with
// any non-blank cell becomes the header row. Returns false when no data
// rows remain.
func buildTable(sheetName string, grid [][]string) (models.SheetTable, bool) {
	headerIdx := -1
	for i, row := range grid {
		if !rowIsBlank(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 || headerIdx == len(grid)-1 {
		return models.SheetTable{}, false
	}

	headers := normalizeHeaders(grid[headerIdx])
	var rows []models.Row
	for _, raw := range grid[headerIdx+1:] {
		if rowIsBlank(raw) {
			continue
		}
		row := make(models.Row, len(headers))
		for i, header := range headers {
			if i < len(raw) {
				row[header] = strings.TrimSpace(raw[i])
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return models.SheetTable{}, false
	}

	return models.SheetTable{
		SheetName: sheetName,
		Headers:   headers,
		Rows:      rows,
	}, true
}

// normalizeHeaders trims header cells and names blank ones by position so
// every column stays addressable.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, cell := range raw {
		header := strings.TrimSpace(cell)
		if header == "" {
			header = fmt.Sprintf("Column %d", i+1)
		}
		if n, dup := seen[header]; dup {
			seen[header] = n + 1
			header = fmt.Sprintf("%s (%d)", header, n+1)
		} else {
			seen[header] = 1
		}
		headers[i] = header
	}
	return headers
}

func rowIsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// decodeText strips a UTF BOM when present and falls back to Windows-1252
// for byte streams that are not valid UTF-8, which is what most legacy
// spreadsheet exports use.
func decodeText(data []byte) (string, error) {
	bomDecoder := unicode.UTF8BOM.NewDecoder()
	decoded, _, err := transform.Bytes(bomDecoder, data)
	if err == nil && utf8.Valid(decoded) {
		return string(decoded), nil
	}

	decoded, _, err = transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// detectDelimiter picks tab or semicolon over comma when the first line
// favors them.
func detectDelimiter(text string) rune {
	line := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		line = text[:idx]
	}
	if strings.Count(line, "\t") > strings.Count(line, ",") {
		return '\t'
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

func sheetNameFromFilename(filename string) string {
	if filename == "" {
		return "Sheet1"
	}
	base := filename
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndexByte(base, '.'); idx > 0 {
		base = base[:idx]
	}
	if base == "" {
		return "Sheet1"
	}
	return base
}
