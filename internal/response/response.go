// Package response implements the uniform envelope every endpoint returns and
// the single boundary translator that maps taxonomy errors to HTTP statuses.
package response

import (
	"net/http"
	"reflect"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-admin/internal/apperr"
	"github.com/iliyamo/hr-admin/internal/trace"
)

// timestampLayout and location fix the envelope timestamp format regardless
// of server locale.
const timestampLayout = "02/01/2006 15:04:05"

var location = loadLocation()

func loadLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// Success is the envelope for every successful response.
type Success struct {
	OperationType string `json:"operationType"`
	Message       string `json:"message"`
	Code          string `json:"code"`
	Data          any    `json:"data"`
	Size          int    `json:"size"`
	TotalElements *int   `json:"totalElements,omitempty"`
	TotalPages    *int   `json:"totalPages,omitempty"`
	Page          *int   `json:"page,omitempty"`
	PageSize      *int   `json:"pageSize,omitempty"`
	TraceID       string `json:"traceId"`
	Timestamp     string `json:"timestamp"`
}

// Failure is the envelope for every error response.
type Failure struct {
	OperationType string         `json:"operationType"`
	Message       string         `json:"message"`
	Code          string         `json:"code"`
	Domain        string         `json:"domain,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
	TraceID       string         `json:"traceId"`
	Timestamp     string         `json:"timestamp"`
}

// PagedResult carries one page of content plus totals, produced by the
// repository layer.
type PagedResult[T any] struct {
	Content       []T
	TotalElements int
	TotalPages    int
	Page          int
	PageSize      int
}

func now() string { return time.Now().In(location).Format(timestampLayout) }

// sizeOf mirrors the envelope convention: collections report their length,
// everything else reports 0.
func sizeOf(data any) int {
	if data == nil {
		return 0
	}
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array || v.Kind() == reflect.Map {
		return v.Len()
	}
	return 0
}

// OK writes a 200 success envelope around data.
func OK(c echo.Context, data any) error {
	return JSON(c, http.StatusOK, data)
}

// JSON writes a success envelope with an explicit status code.
func JSON(c echo.Context, status int, data any) error {
	return c.JSON(status, Success{
		OperationType: "Success",
		Message:       "success",
		Code:          "OK",
		Data:          data,
		Size:          sizeOf(data),
		TraceID:       trace.FromContext(c.Request().Context()),
		Timestamp:     now(),
	})
}

// Paged writes a success envelope with the pagination fields populated.
func Paged[T any](c echo.Context, paged PagedResult[T]) error {
	return c.JSON(http.StatusOK, Success{
		OperationType: "Success",
		Message:       "success",
		Code:          "OK",
		Data:          paged.Content,
		Size:          len(paged.Content),
		TotalElements: &paged.TotalElements,
		TotalPages:    &paged.TotalPages,
		Page:          &paged.Page,
		PageSize:      &paged.PageSize,
		TraceID:       trace.FromContext(c.Request().Context()),
		Timestamp:     now(),
	})
}

// statusFor maps every taxonomy kind to its transport status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.InvalidCredentials, apperr.AccountDisabled,
		apperr.TokenExpired, apperr.TokenInvalid, apperr.TokenRevoked:
		return http.StatusUnauthorized
	case apperr.InsufficientRole:
		return http.StatusForbidden
	case apperr.ResourceNotFound:
		return http.StatusNotFound
	case apperr.DuplicateResource:
		return http.StatusConflict
	case apperr.ValidationFailed:
		return http.StatusBadRequest
	case apperr.UpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes a failure envelope with an explicit status, for rejections
// that fall outside the error taxonomy (e.g. rate limiting).
func Fail(c echo.Context, status int, code, domain, message string, details map[string]any) error {
	return c.JSON(status, Failure{
		OperationType: "Failure",
		Message:       message,
		Code:          code,
		Domain:        domain,
		Details:       details,
		TraceID:       trace.FromContext(c.Request().Context()),
		Timestamp:     now(),
	})
}

// Error is the boundary translator: it turns any error into a failure
// envelope. Errors outside the taxonomy collapse to a fixed internal-error
// message so stack detail never reaches the caller.
func Error(c echo.Context, err error) error {
	tid := trace.FromContext(c.Request().Context())
	if e, ok := err.(*apperr.Error); ok {
		return c.JSON(statusFor(e.Kind), Failure{
			OperationType: "Failure",
			Message:       e.Message,
			Code:          string(e.Kind),
			Domain:        e.Domain,
			Details:       e.Details,
			TraceID:       tid,
			Timestamp:     now(),
		})
	}
	return c.JSON(http.StatusInternalServerError, Failure{
		OperationType: "Failure",
		Message:       "internal server error",
		Code:          string(apperr.Internal),
		Domain:        "system",
		TraceID:       tid,
		Timestamp:     now(),
	})
}
