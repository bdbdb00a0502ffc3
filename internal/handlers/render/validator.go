package render

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/prakritipath/backend/internal/models"
)

func configureValidator(validate *validator.Validate) {
	_ = validate.RegisterValidation("role", validateRole)
	_ = validate.RegisterValidation("future", validateFutureTime)
	validate.RegisterTagNameFunc(useJSONTagNames)
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

func validateRole(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	return role == models.RolePatient || role == models.RoleDoctor
}

func validateFutureTime(fl validator.FieldLevel) bool {
	at, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return at.After(time.Now())
}
