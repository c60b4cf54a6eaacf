package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
)

// ErrorCategory defines the type of error for proper handling
type ErrorCategory string

const (
	CategoryValidation     ErrorCategory = "validation"
	CategorySchemaMismatch ErrorCategory = "schema_mismatch"
	CategoryModelLoad      ErrorCategory = "model_load"
	CategoryInference      ErrorCategory = "inference"
	CategoryTimeout        ErrorCategory = "timeout"
	CategoryRateLimit      ErrorCategory = "rate_limit"
	CategoryInternal       ErrorCategory = "internal"
	CategoryConfiguration  ErrorCategory = "configuration"
)

type sentinel string

func (s sentinel) Error() string { return string(s) }

// Sentinels for errors.Is checks against an AppError's category.
var (
	ErrValidation     error = sentinel("validation error")
	ErrSchemaMismatch error = sentinel("schema mismatch")
	ErrModelLoad      error = sentinel("model load error")
	ErrInference      error = sentinel("inference error")
	ErrConfiguration  error = sentinel("configuration error")
)

var categorySentinels = map[ErrorCategory]error{
	CategoryValidation:     ErrValidation,
	CategorySchemaMismatch: ErrSchemaMismatch,
	CategoryModelLoad:      ErrModelLoad,
	CategoryInference:      ErrInference,
	CategoryConfiguration:  ErrConfiguration,
}

var categoryCodes = map[ErrorCategory]string{
	CategoryValidation:     "VALIDATION_ERROR",
	CategorySchemaMismatch: "SCHEMA_MISMATCH",
	CategoryModelLoad:      "MODEL_LOAD_ERROR",
	CategoryInference:      "INFERENCE_ERROR",
	CategoryTimeout:        "TIMEOUT_ERROR",
	CategoryRateLimit:      "RATE_LIMIT_EXCEEDED",
	CategoryInternal:       "INTERNAL_ERROR",
	CategoryConfiguration:  "CONFIGURATION_ERROR",
}

// AppError wraps errbuilder error with additional context
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory `json:"category"`
	HTTPStatus int           `json:"http_status"`
	Timestamp  time.Time     `json:"timestamp"`
	RequestID  string        `json:"request_id,omitempty"`
	StackTrace string        `json:"stack_trace,omitempty"`

	// Fields mirrors the errbuilder details as plain strings for API payloads
	Fields map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	codeStr, ok := categoryCodes[e.Category]
	if !ok {
		codeStr = "UNKNOWN_ERROR"
	}
	if cause := e.ErrBuilder.Unwrap(); cause != nil {
		return fmt.Sprintf("[%s] %s: %v", codeStr, e.ErrBuilder.Msg, cause)
	}
	return fmt.Sprintf("[%s] %s", codeStr, e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// Is matches the category sentinels, so callers can write
// errors.Is(err, ErrInference) without caring about the message.
func (e *AppError) Is(target error) bool {
	s, ok := categorySentinels[e.Category]
	return ok && s == target
}

// Code returns the stable string code used in API payloads
func (e *AppError) Code() string {
	if code, ok := categoryCodes[e.Category]; ok {
		return code
	}
	return "UNKNOWN_ERROR"
}

// NewAppError creates an AppError from errbuilder with additional context
func NewAppError(builder *errbuilder.ErrBuilder, category ErrorCategory, httpStatus int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now(),
	}
}

// NewValidationError creates a validation error using errbuilder
func NewValidationError(message string, details ...interface{}) *AppError {
	detailStr := ""
	if len(details) > 0 {
		detailStr = fmt.Sprintf("%v", details[0])
	}

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)

	var fields map[string]string
	if detailStr != "" {
		fields = map[string]string{"validation_details": detailStr}
		builder = builder.WithDetails(errbuilder.NewErrDetails(toErrorMap(fields)))
	}

	return withFields(NewAppError(builder, CategoryValidation, http.StatusBadRequest), fields)
}

// NewValidationErrorWithMap creates a validation error using ErrorMap for multiple validation issues
func NewValidationErrorWithMap(validationErrors map[string]string) *AppError {
	errMap := errbuilder.ErrorMap{}

	for field, message := range validationErrors {
		errMap.Set(field, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(message))
	}

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("Invalid delivery parameters").
		WithDetails(errbuilder.NewErrDetails(errMap))

	return withFields(NewAppError(builder, CategoryValidation, http.StatusBadRequest), validationErrors)
}

// NewSchemaMismatchError reports features that do not line up with the
// model's declared schema. Missing holds the absent feature names.
func NewSchemaMismatchError(message string, missing []string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(message)

	var fields map[string]string
	if len(missing) > 0 {
		fields = map[string]string{"features": strings.Join(missing, ",")}
		builder = builder.WithDetails(errbuilder.NewErrDetails(toErrorMap(fields)))
	}

	return withFields(NewAppError(builder, CategorySchemaMismatch, http.StatusUnprocessableEntity), fields)
}

// NewModelLoadError creates an error for a missing or corrupt model artifact
func NewModelLoadError(path string, cause error) *AppError {
	fields := map[string]string{"artifact": path}

	builder := errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg("Prediction model unavailable").
		WithDetails(errbuilder.NewErrDetails(toErrorMap(fields)))

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return withFields(NewAppError(builder, CategoryModelLoad, http.StatusServiceUnavailable), fields)
}

// NewInferenceError creates an error for a vector the model rejected
func NewInferenceError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryInference, http.StatusUnprocessableEntity)
}

// NewTimeoutError creates a timeout error using errbuilder
func NewTimeoutError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeDeadlineExceeded).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryTimeout, http.StatusGatewayTimeout)
}

// NewRateLimitError creates a rate limit error using errbuilder
func NewRateLimitError(retryAfter string) *AppError {
	fields := map[string]string{"retry_after": retryAfter}

	builder := errbuilder.New().
		WithCode(errbuilder.CodeResourceExhausted).
		WithMsg("Rate limit exceeded").
		WithDetails(errbuilder.NewErrDetails(toErrorMap(fields)))

	return withFields(NewAppError(builder, CategoryRateLimit, http.StatusTooManyRequests), fields)
}

// NewInternalError creates an internal server error using errbuilder
func NewInternalError(message string, cause error) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("internal_details", errors.New(message))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("Internal server error").
		WithDetails(errbuilder.NewErrDetails(errorMap))

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	appErr := NewAppError(builder, CategoryInternal, http.StatusInternalServerError)

	// Capture stack trace in development/debug mode
	if gin.Mode() == gin.DebugMode {
		appErr.StackTrace = captureStackTrace()
	}

	return appErr
}

// NewConfigurationError creates a configuration error using errbuilder
func NewConfigurationError(message string, cause error) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("config_details", errors.New(message))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("Configuration error").
		WithDetails(errbuilder.NewErrDetails(errorMap))

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	appErr := NewAppError(builder, CategoryConfiguration, http.StatusInternalServerError)
	return withFields(appErr, map[string]string{"config_details": message})
}

// captureStackTrace captures a stack trace for debugging
func captureStackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// Response is the JSON body written for every AppError
type Response struct {
	Code     string            `json:"code"`
	Category ErrorCategory     `json:"category"`
	Message  string            `json:"message"`
	Details  map[string]string `json:"details,omitempty"`
}

// ToResponse flattens the error into the public payload. Causes are only
// logged, never returned to the client.
func (e *AppError) ToResponse() Response {
	return Response{
		Code:     e.Code(),
		Category: e.Category,
		Message:  e.ErrBuilder.Msg,
		Details:  e.Fields,
	}
}

func toErrorMap(fields map[string]string) errbuilder.ErrorMap {
	errorMap := errbuilder.ErrorMap{}
	for key, value := range fields {
		errorMap.Set(key, errors.New(value))
	}
	return errorMap
}

func withFields(appErr *AppError, fields map[string]string) *AppError {
	appErr.Fields = fields
	return appErr
}

// ErrorHandler is a Gin middleware that provides centralized error handling
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			appErr := ToAppError(c.Errors.Last().Err)
			LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr.ToResponse())
		}
	}
}

// RecoveryHandler provides panic recovery with structured error responses
func RecoveryHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err interface{}) {
		appErr := NewInternalError(
			fmt.Sprintf("Panic recovered: %v", err),
			fmt.Errorf("%v", err),
		)
		appErr.StackTrace = captureStackTrace()

		LogError(c, appErr)
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
	})
}

// Abort logs err and writes it as the JSON response
func Abort(c *gin.Context, err error) {
	appErr := ToAppError(err)
	LogError(c, appErr)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// ToAppError converts any error to an AppError
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var ebErr *errbuilder.ErrBuilder
	if errors.As(err, &ebErr) {
		return NewAppError(ebErr, CategoryInternal, http.StatusInternalServerError)
	}

	if errors.Is(err, context.Canceled) {
		return NewTimeoutError("Request cancelled", err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError("Request deadline exceeded", err)
	}

	return NewInternalError("An unexpected error occurred", err)
}

// LogError logs an error with appropriate level and context
func LogError(c *gin.Context, err *AppError) {
	logEntry := slog.With(
		"error_category", err.Category,
		"error_code", err.Code(),
		"http_status", err.HTTPStatus,
		"ip", c.ClientIP(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetHeader("X-Request-ID"),
	)

	errorMsg := err.ErrBuilder.Msg
	errorDetails := err.ErrBuilder.Details
	cause := err.ErrBuilder.Unwrap()

	switch err.Category {
	case CategoryValidation, CategoryRateLimit, CategorySchemaMismatch, CategoryInference:
		if len(errorDetails.Errors) > 0 {
			logEntry.Warn(errorMsg, "details", errorDetails.Errors, "cause", cause)
		} else {
			logEntry.Warn(errorMsg, "cause", cause)
		}
	case CategoryTimeout:
		logEntry.Info(errorMsg, "cause", cause)
	default:
		logEntry.Error(errorMsg, "cause", cause)
	}

	if err.StackTrace != "" && gin.Mode() == gin.DebugMode {
		logEntry.Debug("stack_trace", "trace", err.StackTrace)
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, message string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	contextMsg := fmt.Sprintf(message, args...)
	return fmt.Errorf("%s: %w", contextMsg, err)
}

// SafeClose safely closes a resource and logs any errors
func SafeClose(closer interface{ Close() error }, resourceName string) {
	if closer == nil {
		return
	}

	if err := closer.Close(); err != nil {
		slog.Warn("Failed to close resource",
			"resource", resourceName,
			"error", err)
	}
}
