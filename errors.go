package manview

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension reports a width or height below 1.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrPageOutOfRange reports a page number outside the page set.
	ErrPageOutOfRange = errors.New("page out of range")
)

// DimensionError carries the offending dimension.
type DimensionError struct {
	Name  string
	Value int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s %d must be at least 1", e.Name, e.Value)
}

// Is makes errors.Is(err, ErrInvalidDimension) hold.
func (e *DimensionError) Is(target error) bool {
	return target == ErrInvalidDimension
}

// PageOutOfRangeError carries the requested page and the page count.
type PageOutOfRangeError struct {
	Page  int
	Total int
}

func (e *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("page %d out of range [1, %d]", e.Page, e.Total)
}

// Is makes errors.Is(err, ErrPageOutOfRange) hold.
func (e *PageOutOfRangeError) Is(target error) bool {
	return target == ErrPageOutOfRange
}

func checkDimension(name string, value int) error {
	if value < 1 {
		return &DimensionError{Name: name, Value: value}
	}
	return nil
}
