package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kowsik11/GradeKart-Dev-sub000/core/campus"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/identity"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/payment"
)

type authApi struct {
	validate  *validator.Validate
	resolver  *identity.Resolver
	selection *campus.Selection
	payments  *payment.Orchestrator
	sessions  *identity.Store
}

func registerAuthAPI(g *echo.Group, deps ServerDeps) {
	api := authApi{
		validate:  deps.Validate,
		resolver:  deps.Resolver,
		selection: deps.Selection,
		payments:  deps.Payments,
		sessions:  deps.Sessions,
	}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/signup", api.signup)
	ag.POST("/logout", api.logout)

	g.GET("/session", api.session, sessionMiddleware(deps.Sessions))
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	prev, hadSession := api.sessions.Active()
	sess, err := api.resolver.Login(ctx.Request().Context(), data.Role, data.Identifier, data.Password, api.selection.Selected())
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	// attempts belong to the identity that started them
	if hadSession && !sameIdentity(prev, sess) {
		api.payments.Reset()
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func sameIdentity(a, b identity.Session) bool {
	return a.Role == b.Role && a.Profile.ProfileID() == b.Profile.ProfileID()
}

func (api *authApi) signup(ctx echo.Context) error {
	var data identity.NewAccount
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAccount")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	profile, err := api.resolver.Signup(ctx.Request().Context(), data, api.selection.Selected())
	if err != nil {
		return errors.Wrap(err, "signing up")
	}
	return ctx.JSON(http.StatusCreated, SignupResponse{Role: data.Role, Profile: profile})
}

func (api *authApi) logout(ctx echo.Context) error {
	api.resolver.Logout()
	api.payments.Reset()
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) session(ctx echo.Context) error {
	sess, ok := getContextSession(ctx)
	if !ok {
		return errNotAuthenticated
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}
