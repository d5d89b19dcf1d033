package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

var validate = newValidator()

// newValidator reporta los campos con su nombre JSON (ej. "detalles[0].productoId").
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindJSON parsea el body y valida los tags `validate`. Si falla ya escribió la
// respuesta 400 y retorna ok=false.
func bindJSON(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, invalidBody(c)
	}
	if fields := validationFields(validate.Struct(out)); fields != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Fields:  fields,
		})
	}
	return true, nil
}

func validationFields(err error) map[string]string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fieldPath(fe.Namespace())] = ruleMessage(fe)
	}
	return out
}

// fieldPath quita el nombre del struct raíz: "CreateInvoiceRequest.detalles[0].cantidad" → "detalles[0].cantidad".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "email":
		return "email inválido"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "min":
		return "mínimo " + fe.Param()
	case "max":
		return "máximo " + fe.Param()
	case "len":
		return "debe tener longitud " + fe.Param()
	case "datetime":
		return "formato de fecha YYYY-MM-DD"
	case "alphanum":
		return "solo letras y números"
	}
	return "no cumple la regla " + fe.Tag()
}
