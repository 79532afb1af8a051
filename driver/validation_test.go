package driver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePath(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePath("data/wordFrequencyFirst.csv"))
	assert.NoError(t, ValidatePath("../data/wordFrequencyFirst.csv"))
	assert.ErrorIs(t, ValidatePath("   "), ErrInvalidPath)
	assert.ErrorIs(t, ValidatePath("a\x00.csv"), ErrInvalidPath)
}

func TestValidateTableName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		valid bool
	}{
		{name: "lemmas", valid: true},
		{name: "wordForms", valid: true},
		{name: "my table", valid: true},
		{name: "", valid: false},
		{name: "a;b", valid: false},
		{name: "a=b", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateTableName(tt.name)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidIdentifier)
			}
		})
	}
}

func TestValidateColumnCount(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateColumnCount(MaxColumnCount))
	assert.ErrorIs(t, ValidateColumnCount(MaxColumnCount+1), ErrTooManyColumns)
}

func TestValidateFieldValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab", ValidateFieldValue("a\x00b"))
	assert.Len(t, ValidateFieldValue(strings.Repeat("x", MaxValueLength+10)), MaxValueLength)
}

func TestQuoteIdentifier(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"lemma"`, QuoteIdentifier("lemma"))
	assert.Equal(t, `"#texts"`, QuoteIdentifier("#texts"))
	assert.Equal(t, `"a""b"`, QuoteIdentifier(`a"b`))
}
