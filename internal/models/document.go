package models

// SourceKind classifies where a raw document came from.
type SourceKind string

const (
	// SourceCloudSheet is a shared cloud spreadsheet link with export endpoints.
	SourceCloudSheet SourceKind = "cloud_sheet"
	// SourceSharedDoc is a sharing link from a consumer file-hosting service.
	SourceSharedDoc SourceKind = "shared_doc"
	// SourceGeneric is any other URL, fetched with a single direct attempt.
	SourceGeneric SourceKind = "generic"
	// SourceUpload is raw bytes supplied by the caller with a filename.
	SourceUpload SourceKind = "upload"
)

// RawDocument holds the bytes of a fetched or uploaded document before parsing.
type RawDocument struct {
	Bytes      []byte     `json:"-"`
	SourceKind SourceKind `json:"source_kind"`
	Filename   string     `json:"filename,omitempty"`
	SourceURL  string     `json:"source_url,omitempty"`
}

// Row is one data row of a sheet: header name to the cell's rendered text.
// Blank cells are normalized to the empty string.
type Row map[string]string

// SheetTable is one parsed sheet in header order.
type SheetTable struct {
	SheetName string   `json:"sheet_name"`
	Headers   []string `json:"headers"`
	Rows      []Row    `json:"rows"`
}

// RowCount returns the number of data rows in the sheet.
func (s *SheetTable) RowCount() int {
	return len(s.Rows)
}

// Column returns the values of one column in row order.
func (s *SheetTable) Column(header string) []string {
	values := make([]string, len(s.Rows))
	for i, row := range s.Rows {
		values[i] = row[header]
	}
	return values
}
