package identity

import (
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
)

var (
	roleTag  = "role"
	roleText = "role must be one of student or teacher"

	teacherEmailTag  = "teacheremail"
	teacherEmailText = "faculty accounts sign up with a valid email"

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to your roll number, email or name"
)

// InitValidators registers the identity rules on validate.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	_ = validate.RegisterValidation(pwdNoSpaceTag, pwdNoSpaceValidation)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)

	validate.RegisterStructValidation(accountStructValidation, NewAccount{})
	core.RegisterCustomTranslation(validate, translator, teacherEmailTag, teacherEmailText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
}

func roleValidation(fl validator.FieldLevel) bool {
	_, err := ParseRole(fl.Field().String())
	return err == nil
}

func pwdNoSpaceValidation(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsSpace) < 0
}

// accountStructValidation does struct level validation on NewAccount.
func accountStructValidation(sl validator.StructLevel) {
	na, ok := sl.Current().Interface().(NewAccount)
	if !ok {
		return
	}
	if na.Role == RoleTeacher && na.Identifier != "" {
		if err := sl.Validator().Var(na.Identifier, "email"); err != nil {
			sl.ReportError(na.Identifier, "identifier", "Identifier", teacherEmailTag, "")
		}
	}
	if passwordTooSimilar(na.Password, na.Identifier, na.FullName) {
		sl.ReportError(na.Password, "password", "Password", pwdAttrSimTag, "")
	}
}

func passwordTooSimilar(pwd string, attrs ...string) bool {
	if pwd == "" {
		return false
	}
	lpwd := strings.ToLower(pwd)
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		ratio := difflib.NewMatcher(strings.Split(lpwd, ""), strings.Split(strings.ToLower(attr), "")).QuickRatio()
		if ratio >= pwdMaxSim {
			return true
		}
	}
	return false
}
