package handler

import (
	"errors"
	"net/http"
	"reflect"

	"ebucks/internal/apierror"
	"ebucks/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0 work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails,
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// uuidParam parses a path parameter, writing a 400 when it is malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// serviceStatus maps a service sentinel error to its HTTP status. Zero means
// the error is internal.
func serviceStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidVoucherSet),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrCartTotalMismatch),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrSelfTransfer):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrPINTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidPIN):
		return http.StatusUnauthorized
	default:
		return 0
	}
}

// writeServiceError answers known service errors with their message. Anything
// else is handed to the ErrorHandler middleware, which logs it and returns a
// generic 500.
func writeServiceError(c *gin.Context, err error) {
	if status := serviceStatus(err); status != 0 {
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	_ = c.Error(err)
}
