package controllers

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/monesting/notification-store/internal/domain/validation"
)

// readValidatedBody reads the whole request body and runs check on it.
// Any failure is reported as 400 and nothing downstream runs.
func readValidatedBody(ctx echo.Context, check func([]byte) error) ([]byte, error) {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := check(body); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return nil, echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
				"message": "Invalid request body",
				"details": verr.Details,
			})
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	return body, nil
}

// pathID returns the decoded :id parameter. echo routes on the raw path when
// the request carries one (an encoded slash, for example) and leaves the
// parameter escaped in that case.
func pathID(ctx echo.Context) (string, error) {
	id := ctx.Param("id")
	if ctx.Request().URL.RawPath == "" {
		return id, nil
	}

	decoded, err := url.PathUnescape(id)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid identifier")
	}
	return decoded, nil
}
