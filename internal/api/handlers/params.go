package handlers

import (
	"strings"
	"time"

	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rohits-web03/innerself/internal/models"
)

// parseRange reads a [start, end] window. A plain date as end covers the
// whole of that day.
func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	if strings.TrimSpace(startStr) == "" || strings.TrimSpace(endStr) == "" {
		return time.Time{}, time.Time{}, apperr.Validation("Start and end dates are required")
	}
	start, err := models.ParseTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.ValidationField("start", "Invalid start date")
	}
	end, err := models.ParseTime(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.ValidationField("end", "Invalid end date")
	}
	if isDateOnly(endStr) {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperr.Validation("End date must not be before start date")
	}
	return start, end, nil
}

func isDateOnly(s string) bool {
	_, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	return err == nil
}
