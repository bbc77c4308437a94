package handler

import "testing"

func TestIndexToRowLabel(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := indexToRowLabel(tt.in); got != tt.want {
			t.Errorf("indexToRowLabel(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
