package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kowsik11/GradeKart-Dev-sub000/core/fee"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/identity"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/payment"
)

type feeApi struct {
	validate *validator.Validate
	repo     fee.Repository
	payments *payment.Orchestrator
}

func registerFeeAPI(g *echo.Group, deps ServerDeps) {
	api := feeApi{
		validate: deps.Validate,
		repo:     deps.Fees,
		payments: deps.Payments,
	}

	fg := g.Group("/fees", sessionMiddleware(deps.Sessions), roleMiddleware(identity.RoleStudent))
	fg.GET("", api.list)
	fg.POST("/:id/pay", api.pay)
	fg.GET("/:id/payment", api.payment)
}

// Handlers

func (api *feeApi) list(ctx echo.Context) error {
	student, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	fees, err := api.repo.ListFees(ctx.Request().Context(), student.RollNo)
	if err != nil {
		return errors.Wrap(err, "listing fees")
	}

	views := make([]fee.View, 0, len(fees))
	for _, f := range fees {
		views = append(views, f.View())
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *feeApi) pay(ctx echo.Context) error {
	var data PayRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PayRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sess, _ := getContextSession(ctx)
	f, err := api.getFee(ctx)
	if err != nil {
		return err
	}

	payer := payment.Payer{Name: sess.DisplayName(), Email: sess.ContactEmail()}
	att, err := api.payments.PayOutstanding(ctx.Request().Context(), f, payer, data.Method)
	if err != nil {
		return errors.Wrap(err, "paying outstanding fee")
	}
	return ctx.JSON(http.StatusOK, PaymentResponse{Fee: f.View(), Attempt: att, Live: api.payments.Live()})
}

func (api *feeApi) payment(ctx echo.Context) error {
	f, err := api.getFee(ctx)
	if err != nil {
		return err
	}
	att := api.payments.Attempt(f.ID)
	return ctx.JSON(http.StatusOK, PaymentResponse{Fee: f.View(), Attempt: att, Live: api.payments.Live()})
}

func (api *feeApi) getFee(ctx echo.Context) (fee.Record, error) {
	student, err := contextStudent(ctx)
	if err != nil {
		return fee.Record{}, err
	}
	f, err := api.repo.GetFee(ctx.Request().Context(), student.RollNo, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == fee.ErrNotFound {
			return fee.Record{}, errFeeNotFound
		}
		return fee.Record{}, errors.Wrap(err, "getting fee")
	}
	return f, nil
}

func contextStudent(ctx echo.Context) (identity.StudentProfile, error) {
	sess, ok := getContextSession(ctx)
	if !ok {
		return identity.StudentProfile{}, errNotAuthenticated
	}
	student, ok := sess.Profile.(identity.StudentProfile)
	if !ok {
		return identity.StudentProfile{}, errHttpForbidden
	}
	return student, nil
}
