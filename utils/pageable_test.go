package utils

import (
	"testing"
)

func TestNewPageable(t *testing.T) {
	tests := []struct {
		name         string
		page, size   string
		expectedPage int
		expectedSize int
	}{
		{"defaults", "", "", 0, DefaultPageSize},
		{"explicit", "2", "50", 2, 50},
		{"negative page", "-1", "50", 0, 50},
		{"zero size", "0", "0", 0, DefaultPageSize},
		{"garbage", "abc", "xyz", 0, DefaultPageSize},
		{"capped size", "0", "100000", 0, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPageable(tt.page, tt.size)
			if p.Page != tt.expectedPage || p.Size != tt.expectedSize {
				t.Errorf("NewPageable(%q, %q) = %+v, expected page=%d size=%d",
					tt.page, tt.size, p, tt.expectedPage, tt.expectedSize)
			}
		})
	}
}

func TestPageable_Offset(t *testing.T) {
	p := Pageable{Page: 3, Size: 20}
	if p.Offset() != 60 {
		t.Errorf("Offset() = %d, expected 60", p.Offset())
	}
}

func TestPageable_TotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		size     int
		expected int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 20, 5},
	}

	for _, tt := range tests {
		p := Pageable{Size: tt.size}
		if got := p.TotalPages(tt.total); got != tt.expected {
			t.Errorf("TotalPages(%d) with size %d = %d, expected %d", tt.total, tt.size, got, tt.expected)
		}
	}
}
