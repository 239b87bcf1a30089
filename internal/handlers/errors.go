package handlers

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"toko-storefront/internal/apperr"
	"toko-storefront/internal/middleware"
)

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct turns validator failures into a ValidationError.
func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return &apperr.ValidationError{Message: "Validation failed", Fields: errorMessages}
}

func badBody(c *fiber.Ctx, op string, err error) error {
	log.Printf("Error parsing %s request body: %v", op, err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// respondError maps the storefront error taxonomy onto HTTP.
func respondError(c *fiber.Ctx, op string, err error) error {
	var (
		validationErr *apperr.ValidationError
		authErr       *apperr.AuthError
		ruleErr       *apperr.BusinessRuleError
		paymentErr    *apperr.PaymentLinkError
		backendErr    *apperr.BackendError
		networkErr    *apperr.NetworkError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": validationErr.Message,
			"errors":  validationErr.Fields,
		})

	case errors.As(err, &authErr):
		log.Printf("Unauthorized %s: %v", op, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message":  "Authentication required",
			"error":    err.Error(),
			"redirect": middleware.LoginPath,
		})

	case errors.As(err, &ruleErr):
		status := fiber.StatusConflict
		if ruleErr.Rule == apperr.RuleMinimumOrder {
			status = fiber.StatusUnprocessableEntity
		}
		body := fiber.Map{
			"message": ruleErr.Message,
			"rule":    ruleErr.Rule,
		}
		if len(ruleErr.Details) > 0 {
			body["details"] = ruleErr.Details
		}
		return c.Status(status).JSON(body)

	case errors.As(err, &paymentErr):
		log.Printf("Error %s: %v", op, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": apperr.PaymentLinkMessage,
			"error":   paymentErr.Err.Error(),
		})

	case errors.As(err, &backendErr):
		log.Printf("Error %s: %v", op, err)
		status := fiber.StatusBadGateway
		if backendErr.Status == fiber.StatusNotFound {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"message": backendErr.Message,
			"error":   err.Error(),
		})

	case errors.As(err, &networkErr):
		log.Printf("Error %s: %v", op, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Marketplace backend is unreachable",
			"error":   err.Error(),
		})
	}

	log.Printf("Error %s: %v", op, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": fmt.Sprintf("Could not %s", op),
		"error":   err.Error(),
	})
}
