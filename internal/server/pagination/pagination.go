// Package pagination turns caller-supplied page/limit values into a bounded
// offset window shared by every list query.
package pagination

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/devmatch/internal/common"
)

const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 10
	MaxLimit     int64 = 50
)

type Page struct {
	Page  int64
	Limit int64
	Skip  int64
}

// Normalize parses raw query-style values. Empty strings select the
// defaults; anything present that is not a positive integer fails with
// common.ErrInvalidPagination. The limit is capped at MaxLimit.
func Normalize(rawPage, rawLimit string) (Page, error) {
	page, err := parse("page", rawPage)
	if err != nil {
		return Page{}, err
	}
	limit, err := parse("limit", rawLimit)
	if err != nil {
		return Page{}, err
	}
	return FromInts(page, limit)
}

// FromInts applies the same rules to already-decoded values, nil meaning
// absent.
func FromInts(page, limit *int64) (Page, error) {
	p := Page{Page: DefaultPage, Limit: DefaultLimit}

	if page != nil {
		if *page < 1 {
			return Page{}, fmt.Errorf("%w: page must be positive, got %d", common.ErrInvalidPagination, *page)
		}
		p.Page = *page
	}
	if limit != nil {
		if *limit < 1 {
			return Page{}, fmt.Errorf("%w: limit must be positive, got %d", common.ErrInvalidPagination, *limit)
		}
		p.Limit = min(*limit, MaxLimit)
	}

	if p.Page-1 > math.MaxInt64/p.Limit {
		return Page{}, fmt.Errorf("%w: page %d is out of range", common.ErrInvalidPagination, p.Page)
	}
	p.Skip = (p.Page - 1) * p.Limit
	return p, nil
}

// CheckWindow rejects offset windows no Page can produce. Stores call it
// before slicing or querying.
func CheckWindow(skip, limit int64) error {
	if skip < 0 || limit < 1 {
		return fmt.Errorf("%w: skip %d, limit %d", common.ErrInvalidPagination, skip, limit)
	}
	return nil
}

func parse(name, raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not an integer", common.ErrInvalidPagination, name, raw)
	}
	return &v, nil
}
