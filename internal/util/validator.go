package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/turmab/helpdesk/internal/errs"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// mensagens usam o nome do campo no JSON
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateStruct aplica as tags `validate` e devolve errs.Validation com a
// mensagem do primeiro campo inválido.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return errs.Validation("Erro na validação dos campos")
	}
	return errs.Validation("%s", fieldMessage(fields[0]))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToUpper(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("O campo %s é requerido", field)
	case "email":
		return fmt.Sprintf("O campo %s deve conter um e-mail válido", field)
	case "len":
		return fmt.Sprintf("O campo %s deve ter %s caracteres", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("O campo %s deve conter apenas números", field)
	case "max":
		return fmt.Sprintf("O campo %s deve ter no máximo %s caracteres", field, fe.Param())
	case "min":
		return fmt.Sprintf("O campo %s deve ter no mínimo %s caracteres", field, fe.Param())
	default:
		return fmt.Sprintf("O campo %s é inválido", field)
	}
}
