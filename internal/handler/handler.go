package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

// Bind decodes the JSON body into obj and validates it. An empty body is
// validated as an empty object so required fields are reported per field.
func Bind(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		if !validator.IsEmptyBody(err) {
			return apperrors.NewValidation(validator.Translate(err), err)
		}
		if err := validator.ValidateStruct(obj); err != nil {
			return apperrors.NewValidation(validator.Translate(err), err)
		}
	}
	return nil
}

// ParseID reads the :id path parameter. Non-numeric ids match nothing.
func ParseID(c *gin.Context, resource string) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.NotFound(resource, err)
	}
	return id, nil
}

// Page reads ?page= into a fixed-size page.
func Page(c *gin.Context) (model.Page, error) {
	number, err := httputil.ParsePage(c)
	if err != nil {
		return model.Page{}, err
	}
	return model.Page{Number: number, Size: httputil.DefaultPageSize}, nil
}

// ParseOptionalID parses an optional integer query parameter.
func ParseOptionalID(c *gin.Context, param string) (*int64, error) {
	raw := c.Query(param)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperrors.Validation(param, "A valid integer is required.")
	}
	return &id, nil
}

// ParseOptionalBool parses an optional boolean query parameter.
func ParseOptionalBool(c *gin.Context, param string) (*bool, error) {
	raw := c.Query(param)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.Validation(param, "Enter a valid boolean.")
	}
	return &v, nil
}

// RespondWithPage renders one page of results. Pages past the end are 404s
// except for the first page of an empty list.
func RespondWithPage(c *gin.Context, results interface{}, page model.Page, total int) {
	if page.Number > 1 && page.Offset() >= total {
		httputil.RespondWithError(c, &apperrors.AppError{Code: apperrors.ErrNotFound, Message: "Invalid page."})
		return
	}
	httputil.RespondWithPagination(c, results, page.Number, page.Size, total)
}
