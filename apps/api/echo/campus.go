package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kowsik11/GradeKart-Dev-sub000/core/campus"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/identity"
)

type campusApi struct {
	validate  *validator.Validate
	svc       *campus.Service
	selection *campus.Selection
	sessions  *identity.Store
}

func registerCampusAPI(g *echo.Group, deps ServerDeps) {
	api := campusApi{
		validate:  deps.Validate,
		svc:       deps.Campuses,
		selection: deps.Selection,
		sessions:  deps.Sessions,
	}

	cg := g.Group("/campuses")
	cg.GET("", api.list)
	cg.GET("/selected", api.selected)
	cg.PUT("/selected", api.selectCampus)
	cg.DELETE("/selected", api.clear)
}

// Handlers

func (api *campusApi) list(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.List(ctx.Request().Context()))
}

func (api *campusApi) selected(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, SelectedCampusResponse{Campus: api.selection.Selected()})
}

func (api *campusApi) selectCampus(ctx echo.Context) error {
	var data SelectCampusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SelectCampusRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	c, err := api.svc.Find(ctx.Request().Context(), data.Campus)
	if err != nil {
		if errors.Cause(err) == campus.ErrNotFound {
			return errCampusNotFound
		}
		return errors.Wrap(err, "finding campus")
	}
	if sess, ok := api.sessions.Active(); ok && sess.Campus.ID != c.ID {
		return errAlreadyAuthorized
	}
	api.selection.Select(c)
	return ctx.JSON(http.StatusOK, SelectedCampusResponse{Campus: &c})
}

func (api *campusApi) clear(ctx echo.Context) error {
	if _, ok := api.sessions.Active(); ok {
		return errAlreadyAuthorized
	}
	api.selection.Clear()
	return ctx.NoContent(http.StatusNoContent)
}
