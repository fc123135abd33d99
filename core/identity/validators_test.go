package identity

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
)

func newValidator(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate, translator
}

func TestNewAccount_validation(t *testing.T) {
	validate, translator := newValidator(t)

	tests := []struct {
		name     string
		account  NewAccount
		wantErrs map[string]string
	}{
		{
			name:    "valid student",
			account: NewAccount{Role: RoleStudent, Identifier: "GK25-001", Password: "pass1"},
		},
		{
			name:    "valid teacher",
			account: NewAccount{Role: RoleTeacher, Identifier: "ravi@gk.edu", Password: "Chalk!42", FullName: "Ravi"},
		},
		{
			name:    "unknown role",
			account: NewAccount{Role: "parent", Identifier: "P-1", Password: "abcd1"},
			wantErrs: map[string]string{
				"role": "role must be one of student or teacher",
			},
		},
		{
			name:    "teacher needs an email",
			account: NewAccount{Role: RoleTeacher, Identifier: "ravi", Password: "Chalk!42"},
			wantErrs: map[string]string{
				"identifier": "faculty accounts sign up with a valid email",
			},
		},
		{
			name:    "quotes and spaces",
			account: NewAccount{Role: RoleStudent, Identifier: "GK'25", Password: "two words"},
			wantErrs: map[string]string{
				"identifier": "only letters, digits and . _ @ + - are allowed",
				"password":   "password must not contain whitespace",
			},
		},
		{
			name:    "password too similar",
			account: NewAccount{Role: RoleStudent, Identifier: "GK25-001", Password: "gk25-001!"},
			wantErrs: map[string]string{
				"password": "password cannot be similar to your roll number, email or name",
			},
		},
		{
			name:    "missing fields",
			account: NewAccount{},
			wantErrs: map[string]string{
				"role":       "this field is required",
				"identifier": "this field is required",
				"password":   "this field is required",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.account)
			if tt.wantErrs == nil {
				if err != nil {
					t.Fatalf("Struct() failed! err = %v; want nil", err)
				}
				return
			}
			verrs, ok := err.(validator.ValidationErrors)
			if !ok {
				t.Fatalf("Struct() failed! err = %v; want validation errors", err)
			}
			got := make(map[string]string)
			for _, fe := range verrs {
				got[fe.Field()] = fe.Translate(translator)
			}
			for field, msg := range tt.wantErrs {
				if got[field] != msg {
					t.Errorf("Struct() failed! %s = %q; want %q", field, got[field], msg)
				}
			}
		})
	}
}
