package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

// Даты в запросах принимаются в RFC 3339 или как календарный день (UTC).
var queryTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseQueryTime(raw string) (time.Time, bool) {
	for _, layout := range queryTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// queryRange читает обе границы диапазона; отсутствие любой из них — ошибка.
func queryRange(c *gin.Context, startKey, endKey string) (time.Time, time.Time, error) {
	rawStart := strings.TrimSpace(c.Query(startKey))
	rawEnd := strings.TrimSpace(c.Query(endKey))
	if rawStart == "" || rawEnd == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s and %s are required", domain.ErrInvalidArgument, startKey, endKey)
	}

	start, ok := parseQueryTime(rawStart)
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is not a valid date: %q", domain.ErrInvalidArgument, startKey, rawStart)
	}
	end, ok := parseQueryTime(rawEnd)
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is not a valid date: %q", domain.ErrInvalidArgument, endKey, rawEnd)
	}
	return start, end, nil
}
