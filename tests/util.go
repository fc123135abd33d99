// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/identity"
)

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}

func Config() *core.Config {
	return &core.Config{
		Env:             "TEST",
		AppName:         "GradeKart",
		TestMode:        true,
		FrontendBaseURL: "http://localhost:5173",
		Server:          core.ServerConfig{DisableReqLogs: true},
		Payment:         core.PaymentConfig{Currency: "INR", MerchantName: "GradeKart"},
	}
}

// NewValidator returns a validator with the core and identity rules registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	identity.InitValidators(validate, translator)
	return validate, translator
}

func CreateRecord(t *testing.T, repo identity.Repository, role identity.Role, handle, secret, name, scope string) identity.Record {
	t.Helper()
	rec := identity.Record{Handle: handle, Secret: secret, Name: name, Scope: scope}
	if role == identity.RoleTeacher {
		rec.Email = handle
	}
	rec, err := repo.CreateRecord(context.Background(), role, rec)
	if err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	return rec
}
