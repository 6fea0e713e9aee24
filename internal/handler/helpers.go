package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/altyebv/restaurant-pos-system/internal/apierror"
	"github.com/altyebv/restaurant-pos-system/internal/middleware"
	"github.com/altyebv/restaurant-pos-system/internal/repository"
	"github.com/altyebv/restaurant-pos-system/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// principalFrom builds the service-layer identity from the JWT claims.
func principalFrom(c *gin.Context) service.Principal {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Principal{}
	}
	id, _ := uuid.Parse(claims.UserID)
	return service.Principal{
		ID:          id,
		Role:        claims.Role,
		CashierCode: claims.CashierCode,
	}
}

// parseUUIDParam parses a :param path segment as a UUID. Writes a 400
// response and returns false when the value is malformed.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service and repository errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New("not found"))
	case errors.Is(err, service.ErrNoOpenSession):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.Is(err, service.ErrSessionAlreadyOpen),
		errors.Is(err, service.ErrOrderRefunded),
		errors.Is(err, service.ErrOrderNumberExhausted),
		errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrCashierCodeDuplicated):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrSessionNotOpen),
		errors.Is(err, service.ErrInvalidCashierCode):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.Is(err, service.ErrUserInactive):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	default:
		log.Error().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Err(err).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}
