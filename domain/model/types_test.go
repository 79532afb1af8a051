package model

import (
	"testing"
)

func TestNewHeader(t *testing.T) {
	t.Parallel()

	headerSlice := []string{"rank", "lemma", "PoS"}
	header := NewHeader(headerSlice)

	if len(header) != 3 {
		t.Errorf("expected length 3, got %d", len(header))
	}
	for i, expected := range headerSlice {
		if header[i] != expected {
			t.Errorf("expected %s at index %d, got %s", expected, i, header[i])
		}
	}
}
