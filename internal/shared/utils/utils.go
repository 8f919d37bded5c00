package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func ParseFloatToDecimal(number *float64) *decimal.Decimal {
	if number == nil {
		return nil
	}
	d := decimal.NewFromFloat(*number)
	return &d
}

func ParseStringToUUID(s string) uuid.UUID {
	uid, err := uuid.Parse(s)
	if err != nil || s == "" {
		return uuid.Nil
	}
	return uid
}

// ParseQueryDecimal parses a decimal query parameter such as minRating.
func ParseQueryDecimal(s string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

const (
	DefaultPage = 0
	DefaultSize = 10
	MaxSize     = 100
)

// ParsePagination reads page/size query params with the catalog defaults
// (page 0, size 10) and clamps size to a sane ceiling.
func ParsePagination(c *gin.Context) (page, size int) {
	page = DefaultPage
	size = DefaultSize

	if v := c.Query("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			page = parsed
		}
	}
	if v := c.Query("size"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			size = parsed
		}
	}
	if size > MaxSize {
		size = MaxSize
	}

	return page, size
}
