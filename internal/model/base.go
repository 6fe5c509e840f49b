package model

import (
	"fmt"
	"math"
	"time"
)

// Base contains common fields for all models
type Base struct {
	ID        string    `json:"id" db:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" bson:"updated_at"`
}

// Pagination represents common pagination parameters
type Pagination struct {
	Page  int `json:"page" form:"page"`
	Limit int `json:"limit" form:"limit"`
}

// Size is the page size. A negative limit counts as its absolute value.
func (p Pagination) Size() int {
	switch {
	case p.Limit == math.MinInt:
		return math.MaxInt
	case p.Limit < 0:
		return -p.Limit
	}
	return p.Limit
}

// Skip returns the number of records preceding the requested page. Pages
// below 1 start at the first record; offsets beyond math.MaxInt64 saturate.
func (p Pagination) Skip() int64 {
	size := int64(p.Size())
	if p.Page <= 1 || size == 0 {
		return 0
	}
	pages := int64(p.Page - 1)
	if pages > math.MaxInt64/size {
		return math.MaxInt64
	}
	return pages * size
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDate accepts a calendar date (YYYY-MM-DD) or an RFC 3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC 3339", value)
}
