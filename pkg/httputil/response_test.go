package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/pkg/errors"
)

func newContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestRespondWithError(t *testing.T) {
	t.Run("field errors", func(t *testing.T) {
		c, w := newContext("/api/register/")
		RespondWithError(c, errors.Validation("username", "A user with that username already exists."))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, []string{"A user with that username already exists."}, body["username"])
	})

	t.Run("message errors", func(t *testing.T) {
		c, w := newContext("/api/patients/by_email/")
		RespondWithError(c, fmt.Errorf("lookup: %w", errors.NotFound("Patient", nil)))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Patient not found"}`, w.Body.String())
	})

	t.Run("unknown errors are hidden", func(t *testing.T) {
		c, w := newContext("/api/doctors/")
		RespondWithError(c, fmt.Errorf("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
		assert.Len(t, c.Errors, 1)
	})
}

func TestRespondWithPagination(t *testing.T) {
	c, w := newContext("http://example.com/api/doctors/?page=2&specialty=cardiology")
	RespondWithPagination(c, []int{11, 12, 13}, 2, 10, 35)

	var body struct {
		Count    int     `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Results  []int   `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 35, body.Count)
	require.NotNil(t, body.Next)
	assert.Equal(t, "http://example.com/api/doctors/?page=3&specialty=cardiology", *body.Next)
	require.NotNil(t, body.Previous)
	assert.Equal(t, "http://example.com/api/doctors/?specialty=cardiology", *body.Previous)
	assert.Equal(t, []int{11, 12, 13}, body.Results)
}

func TestRespondWithPaginationSinglePage(t *testing.T) {
	c, w := newContext("http://example.com/api/doctors/")
	RespondWithPagination(c, []int{}, 1, 10, 0)

	assert.JSONEq(t, `{"count":0,"next":null,"previous":null,"results":[]}`, w.Body.String())
}

func TestParsePage(t *testing.T) {
	c, _ := newContext("/api/doctors/")
	page, err := ParsePage(c)
	require.NoError(t, err)
	assert.Equal(t, 1, page)

	c, _ = newContext("/api/doctors/?page=3")
	page, err = ParsePage(c)
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	c, _ = newContext("/api/doctors/?page=zero")
	_, err = ParsePage(c)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	c, _ = newContext("/api/doctors/?page=1000000000000000000")
	_, err = ParsePage(c)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
