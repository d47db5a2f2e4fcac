package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/testutil"
)

func Test_appHTTPErrorHandler(t *testing.T) {
	conf := core.NewTestConfig()
	logger := testutil.NewLogger(conf)

	tests := []struct {
		name         string
		err          error
		wantCode     int
		wantBody     string
		wantShutdown bool
	}{
		{
			name:     "http error",
			err:      echo.NewHTTPError(http.StatusTeapot, "short and stout"),
			wantCode: http.StatusTeapot,
			wantBody: `{"error": "short and stout"}`,
		},
		{
			name:     "validation error",
			err:      errors.Wrap(core.NewValidationError(nil, core.FieldError{Field: "name", Error: "is required"}), "creating"),
			wantCode: http.StatusBadRequest,
			wantBody: `{"name": "is required"}`,
		},
		{
			name:     "validation error without fields",
			err:      core.NewValidationError(errors.New("bad input")),
			wantCode: http.StatusBadRequest,
			wantBody: `{"error": "bad input"}`,
		},
		{
			name:     "not found",
			err:      errors.Wrap(core.NewNotFoundError("round"), "loading round"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error": "round not found"}`,
		},
		{
			name:     "forbidden",
			err:      core.ErrForbidden,
			wantCode: http.StatusForbidden,
			wantBody: `{"error": "permission denied"}`,
		},
		{
			name:     "forbidden with reason",
			err:      errors.Wrap(errors.Wrap(core.ErrForbidden, "round is closed"), "submitting"),
			wantCode: http.StatusForbidden,
			wantBody: `{"error": "round is closed: permission denied"}`,
		},
		{
			name:     "server error",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error": "Internal Server Error"}`,
		},
		{
			name:         "shutdown",
			err:          errors.Wrap(core.NewShutdownError("integrity issue"), "saving"),
			wantCode:     http.StatusInternalServerError,
			wantBody:     `{"error": "Internal Server Error"}`,
			wantShutdown: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var shutdown bool
			handler := newAppHTTPErrorHandler(logger, func() { shutdown = true })

			e := echo.New()
			rec := httptest.NewRecorder()
			ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			handler(tt.err, ctx)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.wantShutdown, shutdown)
		})
	}
}
