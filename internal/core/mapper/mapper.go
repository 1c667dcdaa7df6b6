package mapper

import (
	"time"

	"bookingapp/internal/core/model/response"
)

// TimestampLayout is the wire form of createdAt: local date-time, microsecond precision, UTC.
const TimestampLayout = "2006-01-02T15:04:05.000000"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(value string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, value, time.UTC)
}

func ToPage[T any, R any](items []T, page, size, total int, convert func(T) R) response.PageResponse[R] {
	totalPages := 0

	if size > 0 {
		totalPages = (total + size - 1) / size
	}

	return response.PageResponse[R]{
		Content:       mapAll(items, convert),
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

func mapAll[T any, R any](items []T, convert func(T) R) []R {
	out := make([]R, 0, len(items))

	for _, item := range items {
		out = append(out, convert(item))
	}

	return out
}
