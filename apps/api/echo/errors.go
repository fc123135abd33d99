package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/identity"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/payment"
	paymentsvc "github.com/kowsik11/GradeKart-Dev-sub000/services/payment"
)

var (
	errNotAuthenticated  = echo.NewHTTPError(http.StatusUnauthorized, "please log in first")
	errHttpForbidden     = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errCampusNotFound    = echo.NewHTTPError(http.StatusNotFound, "campus not found")
	errFeeNotFound       = echo.NewHTTPError(http.StatusNotFound, "fee not found")
	errCheckoutNotFound  = echo.NewHTTPError(http.StatusNotFound, "checkout not found")
	errAlreadyAuthorized = echo.NewHTTPError(http.StatusConflict, "log out before switching campus")
)

// identityStatus maps identity error kinds to HTTP status codes.
var identityStatus = map[identity.Kind]int{
	identity.CampusNotSelected:  http.StatusBadRequest,
	identity.MissingIdentifier:  http.StatusBadRequest,
	identity.MissingSecret:      http.StatusBadRequest,
	identity.InvalidCredentials: http.StatusUnauthorized,
	identity.CampusMismatch:     http.StatusForbidden,
	identity.DuplicateAccount:   http.StatusConflict,
	identity.RemoteService:      http.StatusBadGateway,
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(
	logger core.Logger,
	sessions *identity.Store,
	translator ut.Translator,
	signalShutdown func(),
) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *identity.Error:
			code = identityStatus[origErr.Kind]
			if code == 0 {
				code = http.StatusBadRequest
			}
			message = origErr.Error()
			if origErr.Kind == identity.RemoteService {
				logger.Warn("identity service failed", err)
			}
		case *core.ConfigError:
			code = http.StatusServiceUnavailable
			message = origErr.Error()
			logger.Error("missing configuration", err)
		case *core.RemoteError:
			code = http.StatusBadGateway
			message = origErr.Error()
			logger.Warn("remote service failed", err)
		default:
			switch {
			case origErr == payment.ErrGatewayLoading:
				code = http.StatusConflict
				message = origErr.Error()
			case origErr == payment.ErrGatewayUnconfigured, origErr == payment.ErrSDKUnavailable:
				code = http.StatusServiceUnavailable
				message = origErr.Error()
			case origErr == paymentsvc.ErrCheckoutNotFound:
				code = errCheckoutNotFound.Code
				message = errCheckoutNotFound.Message
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				args := []interface{}{errors.Wrap(err, msg)}
				if sess, ok := sessions.Active(); ok {
					args = append(args, sess)
				}
				logger.Error(msg, args...)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
