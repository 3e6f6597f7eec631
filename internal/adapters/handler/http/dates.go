package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const maxRangeDays = 366

// parseDateRange reads start_date/end_date query params (YYYY-MM-DD).
// end_date defaults to today, start_date to end_date minus defaultSpanDays.
// On a bad request it writes the error response and returns ok=false.
func parseDateRange(c *gin.Context, defaultSpanDays int) (from, to time.Time, ok bool) {
	endStr := c.Query("end_date")
	startStr := c.Query("start_date")

	var err error

	if endStr == "" {
		to = time.Now().UTC().Truncate(24 * time.Hour)
	} else {
		to, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, expected YYYY-MM-DD"})
			return
		}
	}

	if startStr == "" {
		from = to.AddDate(0, 0, -defaultSpanDays)
	} else {
		from, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date format, expected YYYY-MM-DD"})
			return
		}
	}

	if from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date cannot be after end_date"})
		return
	}

	if to.Sub(from).Hours()/24 > maxRangeDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date range too large, max 1 year allowed"})
		return
	}

	return from, to, true
}
