package cocafreq

import (
	"strconv"
	"strings"
)

// SheetType identifies one of the four worksheets of the corpus workbook.
type SheetType int

const (
	// SheetLemmas is the "1 lemmas" worksheet.
	SheetLemmas SheetType = iota + 1
	// SheetSubgenres is the "2 subgenres" worksheet.
	SheetSubgenres
	// SheetWordForms is the "3 wordForms" worksheet.
	SheetWordForms
	// SheetForms is the "4 forms (219k)" worksheet.
	SheetForms
)

// AllSheets returns every sheet in workbook order.
func AllSheets() []SheetType {
	return []SheetType{SheetLemmas, SheetSubgenres, SheetWordForms, SheetForms}
}

type sheetInfo struct {
	sheetName string
	fileName  string
	tableName string
	columns   []string // nil means all columns
	search    string
}

var sheets = map[SheetType]sheetInfo{
	SheetLemmas: {
		sheetName: "1 lemmas",
		fileName:  "wordFrequencyFirst.csv",
		tableName: "lemmas",
		columns:   []string{"rank", "lemma", "freq"},
		search:    "lemma",
	},
	SheetSubgenres: {
		sheetName: "2 subgenres",
		fileName:  "wordFrequencySecond.csv",
		tableName: "subgenres",
		columns:   []string{"rank", "lemma"},
		search:    "lemma",
	},
	SheetWordForms: {
		sheetName: "3 wordForms",
		fileName:  "wordFrequencyThird.csv",
		tableName: "wordForms",
		search:    "word",
	},
	SheetForms: {
		sheetName: "4 forms (219k)",
		fileName:  "wordFrequencyFourth.csv",
		tableName: "forms",
		columns:   []string{"rank", "word", "freq", "#texts"},
		search:    "word",
	},
}

// ParseSheet parses a sheet from its id ("1".."4") or its table name,
// ignoring case.
func ParseSheet(s string) (SheetType, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		sheet := SheetType(id)
		if sheet.Valid() {
			return sheet, nil
		}
		return 0, argError("invalid sheet id " + strconv.Quote(s) + ": expected 1-4")
	}
	for _, sheet := range AllSheets() {
		if strings.EqualFold(s, sheet.TableName()) {
			return sheet, nil
		}
	}
	return 0, argError("unknown sheet " + strconv.Quote(s))
}

// ParseSheets parses each value with ParseSheet, dropping repeats.
func ParseSheets(values []string) ([]SheetType, error) {
	result := make([]SheetType, 0, len(values))
	seen := make(map[SheetType]bool, len(values))
	for _, v := range values {
		sheet, err := ParseSheet(v)
		if err != nil {
			return nil, err
		}
		if !seen[sheet] {
			seen[sheet] = true
			result = append(result, sheet)
		}
	}
	return result, nil
}

// Valid reports whether s is one of the four known sheets.
func (s SheetType) Valid() bool {
	_, ok := sheets[s]
	return ok
}

// SheetName returns the worksheet name inside the workbook.
func (s SheetType) SheetName() string { return sheets[s].sheetName }

// FileName returns the name of the derived CSV file.
func (s SheetType) FileName() string { return sheets[s].fileName }

// TableName returns the table the sheet is registered under.
func (s SheetType) TableName() string { return sheets[s].tableName }

// SearchColumn returns the column word matching runs against.
func (s SheetType) SearchColumn() string { return sheets[s].search }

// DefaultColumns returns the projection a query starts from.
func (s SheetType) DefaultColumns() Columns {
	cols := sheets[s].columns
	if cols == nil {
		return AllColumns()
	}
	return ListColumns(cols...)
}

// String returns the table name.
func (s SheetType) String() string {
	if !s.Valid() {
		return "SheetType(" + strconv.Itoa(int(s)) + ")"
	}
	return s.TableName()
}
