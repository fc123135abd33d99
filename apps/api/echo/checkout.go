package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kowsik11/GradeKart-Dev-sub000/core/payment"
	paymentsvc "github.com/kowsik11/GradeKart-Dev-sub000/services/payment"
)

// checkoutApi serves the options of open checkouts to the widget and takes back its outcome.
type checkoutApi struct {
	checkouts *paymentsvc.WebCheckout
}

func registerCheckoutAPI(g *echo.Group, deps ServerDeps) {
	api := checkoutApi{checkouts: deps.Checkouts}

	cg := g.Group("/checkouts/:ref", sessionMiddleware(deps.Sessions))
	cg.GET("", api.options)
	cg.POST("/complete", api.complete)
	cg.POST("/dismiss", api.dismiss)
}

// Handlers

func (api *checkoutApi) options(ctx echo.Context) error {
	opts, err := api.checkouts.Checkout(ctx.Param("ref"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, opts)
}

func (api *checkoutApi) complete(ctx echo.Context) error {
	var data payment.WidgetResponse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to WidgetResponse")
	}
	if err := api.checkouts.Complete(ctx.Request().Context(), ctx.Param("ref"), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Payment received."})
}

func (api *checkoutApi) dismiss(ctx echo.Context) error {
	if err := api.checkouts.Dismiss(ctx.Param("ref")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
