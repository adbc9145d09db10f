package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/services"
)

const dateLayout = "2006-01-02"

var errInvalidAsOf = errors.New("invalid as_of format, expected YYYY-MM-DD or RFC3339")

// Clock supplies the as-of time when a request does not carry one.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// parseAsOf reads the as_of query parameter, falling back to now.
func parseAsOf(c *gin.Context, now Clock) (time.Time, error) {
	raw := c.Query("as_of")
	if raw == "" {
		return now(), nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errInvalidAsOf
}

// parseBoundedInt reads an optional positive integer query parameter no
// larger than maxValue. A missing parameter yields 0.
func parseBoundedInt(c *gin.Context, name string, maxValue int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 || v > maxValue {
		return 0, false
	}
	return v, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingAsOf):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
