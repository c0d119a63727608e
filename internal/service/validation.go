package service

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/grievance-api/internal/models"
)

// NewValidator returns a validator with the grievance tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	registerGrievanceValidations(v)
	return v
}

func registerGrievanceValidations(v *validator.Validate) {
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("grievance_status", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseGrievanceStatus(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("grievance_category", func(fl validator.FieldLevel) bool {
		return models.GrievanceCategory(strings.TrimSpace(fl.Field().String())).Valid()
	})
}
