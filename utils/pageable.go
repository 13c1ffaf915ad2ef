package utils

import (
	"strconv"
)

const (
	// DefaultPageSize is the page size used when the request does not specify one
	DefaultPageSize = 20
	// MaxPageSize caps the page size a client may request
	MaxPageSize = 1000
)

// Pageable describes one page of a paginated listing. Pages are zero-based.
type Pageable struct {
	Page int
	Size int
}

// NewPageable builds a Pageable from raw query string values, falling back to
// defaults on missing or invalid input.
func NewPageable(page, size string) Pageable {
	p, err := strconv.Atoi(page)
	if err != nil || p < 0 {
		p = 0
	}
	s, err := strconv.Atoi(size)
	if err != nil || s <= 0 {
		s = DefaultPageSize
	}
	if s > MaxPageSize {
		s = MaxPageSize
	}
	return Pageable{Page: p, Size: s}
}

// Offset returns the row offset of the page.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// TotalPages returns the number of pages needed to hold total rows.
func (p Pageable) TotalPages(total int64) int {
	if p.Size <= 0 {
		return 0
	}
	pages := int(total) / p.Size
	if int(total)%p.Size != 0 {
		pages++
	}
	return pages
}

// String is a debug representation used in log data maps.
func (p Pageable) String() string {
	return "page=" + strconv.Itoa(p.Page) + " size=" + strconv.Itoa(p.Size)
}
