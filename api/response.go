package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"eazymove/pkg/errs"
	"eazymove/pkg/logger"
)

var (
	errNoRoute         = errs.NewNotFoundError("Route not found")
	errNothingToUpdate = errs.NewBadRequestError("No changes provided", nil)
)

var registerTagsOnce sync.Once

// registerValidatorTags makes validation errors report json field names.
func registerValidatorTags() {
	registerTagsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	})
}

func abort(c *gin.Context, e *errs.HTTPError) {
	c.AbortWithStatusJSON(e.Status, e)
}

// fail renders client errors as they are and hides everything else behind a
// logged 500.
func (h *Handler) fail(c *gin.Context, err error) {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		abort(c, httpErr)
		return
	}
	h.log.Error("request failed",
		logger.String("method", c.Request.Method),
		logger.String("path", c.Request.URL.Path),
		logger.String("request_id", c.GetString(requestIDKey)),
		logger.Error(err),
	)
	abort(c, errs.NewInternalServerError())
}

// bindJSON decodes and validates the body into req, writing a 400 on failure.
func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.fail(c, bindError(err))
		return false
	}
	return true
}

func (h *Handler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.fail(c, bindError(err))
		return false
	}
	return true
}

func bindError(err error) *errs.HTTPError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]errs.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, errs.FieldError{
				Field: fe.Field(),
				Error: fieldMessage(fe),
			})
		}
		return errs.NewBadRequestError("Validation failed", fields)
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return errs.NewBadRequestError("Request body is required", nil)
	case errors.As(err, &typeErr):
		return errs.NewBadRequestError("Invalid request body", []errs.FieldError{
			{Field: typeErr.Field, Error: fmt.Sprintf("must be a %s", typeErr.Type.String())},
		})
	}
	return errs.NewBadRequestError("Invalid request body", nil)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	case "nefield":
		return fmt.Sprintf("must differ from %s", fe.Param())
	}
	return fmt.Sprintf("failed on %s", fe.Tag())
}
