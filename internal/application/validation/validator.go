// Package validation valida los DTOs de entrada antes de tocar el store.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/Ferramentas-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los mensajes usan el nombre JSON del campo (nome, produto_id, ...).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct valida s y devuelve un *domain.ValidationError con un mensaje legible.
// Los campos faltantes se agrupan en "Campos obrigatórios: a, b".
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.Invalid(err.Error())
	}
	var missing, invalid []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		invalid = append(invalid, describe(fe))
	}
	if len(missing) > 0 {
		return &domain.ValidationError{
			Message: "Campos obrigatórios: " + strings.Join(missing, ", "),
			Missing: missing,
		}
	}
	return domain.Invalid(strings.Join(invalid, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		if fe.Param() == "0" {
			return fe.Field() + " não pode ser negativo"
		}
		return fe.Field() + " deve ser no mínimo " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fe.Field() + " deve ter no máximo " + fe.Param() + " caracteres"
		}
		return fe.Field() + " deve ser no máximo " + fe.Param()
	case "email":
		return fe.Field() + " inválido"
	case "oneof":
		return fe.Field() + " deve ser um de: " + fe.Param()
	default:
		return fe.Field() + " inválido"
	}
}
