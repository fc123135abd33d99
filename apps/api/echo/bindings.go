package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/kowsik11/GradeKart-Dev-sub000/core/campus"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/fee"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/identity"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/payment"
)

type (
	SelectCampusRequest struct {
		Campus string `json:"campus" validate:"required,notblank"`
	}

	SelectedCampusResponse struct {
		Campus *campus.Campus `json:"campus"`
	}

	// LoginRequest leaves blank credentials to the resolver, which rejects them as invalid.
	LoginRequest struct {
		Role       identity.Role `json:"role" validate:"required,role"`
		Identifier string        `json:"identifier"`
		Password   string        `json:"password"`
	}

	SessionResponse struct {
		identity.Session
		DisplayName string `json:"displayName"`
	}

	SignupResponse struct {
		Role    identity.Role    `json:"role"`
		Profile identity.Profile `json:"profile"`
	}

	PayRequest struct {
		Method string `json:"method" validate:"omitempty,oneof=card upi netbanking wallet"`
	}

	PaymentResponse struct {
		Fee     fee.View        `json:"fee"`
		Attempt payment.Attempt `json:"attempt"`
		Live    bool            `json:"live"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (r SelectCampusRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

func (r LoginRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

func (r PayRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

func newSessionResponse(sess identity.Session) SessionResponse {
	return SessionResponse{Session: sess, DisplayName: sess.DisplayName()}
}
