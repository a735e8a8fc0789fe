package httputil

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/pkg/errors"
)

// DefaultPageSize is the fixed page size of every list endpoint.
const DefaultPageSize = 10

// MaxPage keeps (page-1)*DefaultPageSize within int.
const MaxPage = math.MaxInt / DefaultPageSize

// Error is the body of every non-field error response.
type Error struct {
	Error string `json:"error"`
}

// PaginatedResponse wraps paginated data
type PaginatedResponse struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// RespondWithSuccess sends a 200 response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondWithCreated sends a 201 response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// RespondWithNoContent sends a 204 response
func RespondWithNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondWithError sends an error response. Field errors are rendered as a
// field -> messages map, everything else as {"error": message}. Server errors
// are attached to the context so the error middleware can log and report them.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.Internal(err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, Error{Error: "internal server error"})
		return
	}

	if len(appErr.Fields) > 0 {
		c.JSON(status, appErr.Fields)
		return
	}

	c.JSON(status, Error{Error: appErr.Message})
}

// ParsePage reads the 1-based ?page= query parameter.
func ParsePage(c *gin.Context) (int, error) {
	raw := c.Query("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 || page > MaxPage {
		return 0, &errors.AppError{Code: errors.ErrNotFound, Message: "Invalid page.", Err: err}
	}
	return page, nil
}

// RespondWithPagination sends a paginated response with absolute next and
// previous links.
func RespondWithPagination(c *gin.Context, data interface{}, page, pageSize, total int) {
	resp := PaginatedResponse{
		Count:   total,
		Results: data,
	}

	if page*pageSize < total {
		next := pageURL(c, page+1)
		resp.Next = &next
	}
	if page > 1 {
		prev := pageURL(c, page-1)
		resp.Previous = &prev
	}

	c.JSON(http.StatusOK, resp)
}

func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}

	query := url.Values{}
	for k, v := range c.Request.URL.Query() {
		query[k] = v
	}
	if page <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}
