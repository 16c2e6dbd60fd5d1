package common

import (
	"net/http"
	"strconv"
)

// Pagination holds offset pagination metadata for list responses.
type Pagination struct {
	Offset     int   `json:"offset"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
}

// ParseOffsetLimit extracts offset and limit parameters from query values.
// The legacy names skip and per_page are accepted when offset and limit are absent.
func ParseOffsetLimit(r *http.Request, defaultLimit, maxLimit int) (offset, limit int) {
	q := r.URL.Query()
	limit = defaultLimit
	if o, err := strconv.Atoi(firstNonEmpty(q.Get("offset"), q.Get("skip"))); err == nil && o > 0 {
		offset = o
	}
	if l, err := strconv.Atoi(firstNonEmpty(q.Get("limit"), q.Get("per_page"))); err == nil && l > 0 {
		limit = l
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
