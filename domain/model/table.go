package model

import (
	"path/filepath"
	"strings"
)

// Table represents file contents as database table structure.
type Table struct {
	// name is the table name registered in the engine.
	name string
	// header is table header.
	header Header
	// records is table records.
	records []Record
	// columnInfo contains inferred type information for each column
	columnInfo []ColumnInfo
}

// NewTable create new Table.
func NewTable(
	name string,
	header Header,
	records []Record,
) *Table {
	return &Table{
		name:       name,
		header:     header,
		records:    records,
		columnInfo: InferColumnsInfo(header, records),
	}
}

// Name return table name.
func (t *Table) Name() string {
	return t.name
}

// Header return table header.
func (t *Table) Header() Header {
	return t.header
}

// Records return table records.
func (t *Table) Records() []Record {
	return t.records
}

// ColumnInfo returns column information with inferred types
func (t *Table) ColumnInfo() []ColumnInfo {
	return t.columnInfo
}

// TableFromFilePath creates table name from file path
func TableFromFilePath(filePath string) string {
	fileName := RemoveCompressionExtension(filepath.Base(filePath))
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
