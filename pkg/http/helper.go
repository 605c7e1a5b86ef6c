package http

import (
	"net/http"
	"strconv"
	"time"

	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ParseDateParam parses a calendar-day path or query value.
func ParseDateParam(value string) (time.Time, error) {
	parsed, err := time.Parse(model.DateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid date, must be YYYY-MM-DD: " + value)
	}
	return parsed, nil
}
