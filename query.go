package cocafreq

import "strconv"

// MatchType selects how search words are compared with the search column.
type MatchType int

const (
	// MatchAll keeps rows equal to any of the words.
	MatchAll MatchType = iota
	// MatchPrefix keeps rows starting with any of the words.
	MatchPrefix
	// MatchSuffix keeps rows ending with any of the words.
	MatchSuffix
)

// String returns the match type name.
func (m MatchType) String() string {
	switch m {
	case MatchPrefix:
		return "prefix"
	case MatchSuffix:
		return "suffix"
	default:
		return "all"
	}
}

// WordMatch pairs search words with how they are matched.
type WordMatch struct {
	Words []string
	Type  MatchType
}

// NewWordMatch builds a WordMatch from command line flags. It returns nil
// when no words are given and neither prefix nor suffix is set.
func NewWordMatch(words []string, prefix, suffix bool) (*WordMatch, error) {
	if prefix && suffix {
		return nil, argError("prefix and suffix cannot be specified together")
	}
	if len(words) == 0 {
		if prefix || suffix {
			return nil, argError("prefix or suffix requires words to search")
		}
		return nil, nil //nolint:nilnil // no word filter requested
	}

	match := &WordMatch{Words: words, Type: MatchAll}
	switch {
	case prefix:
		match.Type = MatchPrefix
	case suffix:
		match.Type = MatchSuffix
	}
	return match, nil
}

// Expr builds the predicate testing column against the words.
func (m *WordMatch) Expr(column string) Expr {
	col := Col(column)
	exprs := make([]Expr, len(m.Words))
	for i, w := range m.Words {
		switch m.Type {
		case MatchPrefix:
			exprs[i] = StartsWith(col, w)
		case MatchSuffix:
			exprs[i] = EndsWith(col, w)
		default:
			exprs[i] = Lit(w)
		}
	}
	if m.Type == MatchAll {
		return InList(col, exprs...)
	}
	return AnyOf(exprs...)
}

// posColumn is the part-of-speech column name in the lemma based sheets.
const posColumn = "PoS"

// QueryOptions holds the optional criteria of SimpleQuery. Zero values mean
// the criterion is absent.
type QueryOptions struct {
	WordMatch    *WordMatch
	PoS          []string
	SortedColumn string
	Skip         *int
	Limit        *int
	Columns      []string
	AllColumns   bool
}

// SimpleQuery composes a query over frame for sheet. Criteria are applied in
// a fixed order: word and part-of-speech filter, descending sort, skip and
// limit, then projection of the default columns merged with the sort column
// and any extra columns.
func SimpleQuery(frame *Frame, sheet SheetType, opts QueryOptions) (*Frame, error) {
	if !sheet.Valid() {
		return nil, argError("invalid sheet type")
	}

	columns := sheet.DefaultColumns()
	if opts.AllColumns {
		columns = AllColumns()
	}

	var where Expr
	if opts.WordMatch != nil {
		if opts.WordMatch.Type != MatchAll && len(opts.WordMatch.Words) == 0 {
			return nil, argError("prefix or suffix requires words to search")
		}
		where = opts.WordMatch.Expr(sheet.SearchColumn())
	}

	if len(opts.PoS) > 0 {
		if !frame.Schema().HasColumn(posColumn) {
			return nil, argError("sheet has no PoS column to filter by part of speech")
		}
		var posExpr Expr
		if len(opts.PoS) == 1 {
			posExpr = Eq(Col(posColumn), Lit(opts.PoS[0]))
		} else {
			values := make([]Expr, len(opts.PoS))
			for i, p := range opts.PoS {
				values[i] = Lit(p)
			}
			posExpr = InList(Col(posColumn), values...)
		}
		where = conjoin(where, posExpr)
	}

	if where != nil {
		frame = frame.Filter(where)
	}

	if opts.SortedColumn != "" {
		if !frame.Schema().HasColumn(opts.SortedColumn) {
			return nil, argError("no column "+strconv.Quote(opts.SortedColumn)+" to sort by in sheet "+sheet.TableName())
		}
		columns.Insert(opts.SortedColumn)
		sorted, err := frame.Sort(opts.SortedColumn)
		if err != nil {
			return nil, err
		}
		frame = sorted
	}

	if opts.Skip != nil || opts.Limit != nil {
		skip, fetch := 0, -1
		if opts.Skip != nil {
			skip = *opts.Skip
		}
		if opts.Limit != nil {
			fetch = *opts.Limit
		}
		frame = frame.Limit(skip, fetch)
	}

	schema := frame.Schema()
	for _, col := range opts.Columns {
		if !schema.HasColumn(col) {
			return nil, argError("no column "+strconv.Quote(col)+" to select in sheet "+sheet.TableName())
		}
		columns.Insert(col)
	}

	if !columns.IsAll() {
		return frame.Select(columns.Names()...)
	}
	return frame, nil
}
