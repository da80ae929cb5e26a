package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// newHTTPErrorHandler renders every error in the portal's JSON shape.
func newHTTPErrorHandler(logger *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		message := http.StatusText(http.StatusInternalServerError)

		var httpErr *echo.HTTPError
		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			code = http.StatusBadRequest
			fields := make([]string, 0, len(validationErrs))
			for _, fieldErr := range validationErrs {
				fields = append(fields, strings.ToLower(fieldErr.Field())+" failed "+fieldErr.Tag())
			}
			message = "invalid request: " + strings.Join(fields, ", ")
		case errors.As(err, &httpErr):
			if internal, ok := httpErr.Internal.(*echo.HTTPError); ok {
				httpErr = internal
			}
			code = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		default:
			logger.Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		}

		if c.Echo().Debug {
			message = err.Error()
		}

		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, sessionResponse{Message: message})
		}
		if err != nil {
			logger.Error(err)
		}
	}
}
