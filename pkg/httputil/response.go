package httputil

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/homecare-api/pkg/errors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ErrorResponse is the body of every failed request. Error carries the
// underlying cause when there is one.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// RespondWithError writes err as an ErrorResponse with the status of its
// AppError kind; unknown errors become 500.
func RespondWithError(c *gin.Context, err error) {
	appErr := errors.As(err)
	status := appErr.StatusCode()

	resp := ErrorResponse{Message: appErr.Message}
	if appErr.Err != nil {
		resp.Error = appErr.Err.Error()
	}

	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.FullPath()).
			Msg("request failed")
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// ParsePagination reads the page and limit query parameters. Values that
// are missing, not numbers, or zero fall back to the defaults; negative
// values are passed through unchanged.
func ParsePagination(c *gin.Context) (page, limit int) {
	return queryInt(c, "page", DefaultPage), queryInt(c, "limit", DefaultLimit)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n == 0 {
		return fallback
	}
	return n
}
