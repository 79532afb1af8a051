package model

import (
	"strconv"
	"strings"
)

// InferColumnType infers the SQL column type from a slice of string values.
// Empty values are ignored; a column with no values at all is TEXT.
func InferColumnType(values []string) ColumnType {
	hasInteger := false
	hasReal := false

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		if _, err := strconv.ParseInt(value, 10, 64); err == nil {
			hasInteger = true
			continue
		}

		if _, err := strconv.ParseFloat(value, 64); err == nil {
			hasReal = true
			continue
		}

		// If any value is text, the whole column is text
		return ColumnTypeText
	}

	// Priority: TEXT > REAL > INTEGER
	if hasReal {
		return ColumnTypeReal
	}
	if hasInteger {
		return ColumnTypeInteger
	}
	return ColumnTypeText
}

// InferColumnsInfo infers column information from header and data records
func InferColumnsInfo(header Header, records []Record) []ColumnInfo {
	if len(header) == 0 {
		return nil
	}

	columns := make([]ColumnInfo, len(header))
	values := make([]string, 0, len(records))
	for i, name := range header {
		values = values[:0]
		for _, record := range records {
			if i < len(record) {
				values = append(values, record[i])
			}
		}
		columns[i] = ColumnInfo{
			Name: name,
			Type: InferColumnType(values),
		}
	}
	return columns
}
