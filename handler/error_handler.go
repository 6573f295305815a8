package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/camtang26/cre8tiveCA/pkg/binder"
	"github.com/camtang26/cre8tiveCA/pkg/logger"
	"github.com/camtang26/cre8tiveCA/pkg/requestid"
	"github.com/camtang26/cre8tiveCA/pkg/validator"
)

// ErrorInfo is the client-facing classification of an error.
type ErrorInfo struct {
	StatusCode int
	Message    string
	Details    any
	LogLevel   slog.Level
}

func classifyError(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: ErrInternal.Code,
		Message:    ErrInternal.Message,
	}

	var httpErr HTTPError
	var valErr ValidationError
	var ruleErrs validator.ValidationErrors
	switch {
	case errors.As(err, &valErr):
		info.StatusCode = http.StatusBadRequest
		info.Message = ErrBadRequest.Message
		info.Details = map[string][]string(valErr)
	case errors.As(err, &ruleErrs):
		info.StatusCode = http.StatusBadRequest
		info.Message = ErrBadRequest.Message
		info.Details = ruleErrs.Fields()
	case errors.As(err, &httpErr):
		info.StatusCode = httpErr.Code
		info.Message = httpErr.Message
		info.Details = httpErr.Details
	case errors.Is(err, binder.ErrBodyTooLarge):
		info.StatusCode = http.StatusRequestEntityTooLarge
		info.Message = "Request body too large"
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		info.StatusCode = http.StatusUnsupportedMediaType
		info.Message = "Content-Type must be application/json"
	case errors.Is(err, binder.ErrInvalidJSON), errors.Is(err, binder.ErrInvalidQuery):
		info.StatusCode = http.StatusBadRequest
		info.Message = ErrBadRequest.Message
		info.Details = err.Error()
	}

	info.LogLevel = slog.LevelError
	if info.StatusCode < http.StatusInternalServerError {
		info.LogLevel = slog.LevelWarn
	}
	return info
}

// NewErrorHandler logs err and writes the error envelope. A nil logger
// falls back to slog.Default.
func NewErrorHandler(log *slog.Logger) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx Context, err error) {
		r := ctx.Request()
		info := classifyError(err)

		log.LogAttrs(r.Context(), info.LogLevel, "request failed",
			logger.Component("handler"),
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.StatusCode(info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Error(err),
		)

		if renderErr := Fail(info.StatusCode, info.Message, info.Details).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response",
				logger.Component("handler"),
				logger.Error(renderErr),
			)
		}
	}
}
