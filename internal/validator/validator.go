// Package validator registers the request binding rules shared by handlers.
package validator

import (
	"taskscope/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// validateObjectID validates that a string is a 24-character hex object id.
func validateObjectID(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}

// validateTaskStatus validates a task workflow status.
func validateTaskStatus(fl validator.FieldLevel) bool {
	return models.IsValidStatus(models.TaskStatus(fl.Field().String()))
}

// validatePriority validates a task or project priority.
func validatePriority(fl validator.FieldLevel) bool {
	return models.IsValidPriority(fl.Field().String())
}

// Register adds the custom rules to v.
func Register(v *validator.Validate) {
	_ = v.RegisterValidation("objectid", validateObjectID)
	_ = v.RegisterValidation("taskstatus", validateTaskStatus)
	_ = v.RegisterValidation("priority", validatePriority)
}

// RegisterCustomValidators registers all custom validators with gin's validator
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}
