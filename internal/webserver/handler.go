package webserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/openeshop/eshop/internal/errs"
)

// HTTPErrorHandler is the single place where classified errors become HTTP
// responses. Every body has the {success, message} shape. Unclassified
// errors are logged with their cause and answered with a generic 500 so no
// internal detail leaks to clients.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "An unexpected error occurred"

	var classified *errs.Error
	if errors.As(err, &classified) {
		message = classified.Error()
		switch classified.Kind() {
		case errs.KindValidation:
			status = http.StatusBadRequest
		case errs.KindUnauthorized:
			status = http.StatusUnauthorized
		case errs.KindNotFound:
			status = http.StatusNotFound
		case errs.KindDependency:
			status = http.StatusInternalServerError
			zap.L().Error("dependency failure",
				zap.String("path", c.Request().URL.Path),
				zap.Error(classified.Unwrap()))
		}
	} else if httpErr, ok := err.(*echo.HTTPError); ok {
		status = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	} else {
		zap.L().Error("unhandled error",
			zap.String("path", c.Request().URL.Path),
			zap.Error(err))
	}

	body := map[string]interface{}{"success": false, "message": message}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		zap.L().Error("failed to write error response", zap.Error(err))
	}
}
