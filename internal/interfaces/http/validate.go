package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pharmacy-inventory/internal/application/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// parseBody decodifica el JSON en dest y valida sus tags. Devuelve nil si todo es válido.
func parseBody(c *fiber.Ctx, dest any) *dto.ErrorResponse {
	if err := c.BodyParser(dest); err != nil {
		return &dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"}
	}
	return validateStruct(dest)
}

func validateStruct(v any) *dto.ErrorResponse {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return &dto.ErrorResponse{Code: CodeValidation, Message: err.Error()}
	}
	details := make([]string, 0, len(errs))
	for _, fe := range errs {
		details = append(details, fe.Field()+": "+validationMessage(fe))
	}
	return &dto.ErrorResponse{Code: CodeValidation, Message: "datos inválidos", Details: details}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "min":
		return fmt.Sprintf("debe tener al menos %s", fe.Param())
	case "max":
		return fmt.Sprintf("debe tener como máximo %s", fe.Param())
	}
	return "es inválido"
}
