package handlers

import (
	"sync"

	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// RegisterValidators adds the custom binding tags used by the request DTOs to gin's
// validator engine. Safe to call more than once.
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("servicetype", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseServiceType(fl.Field().String())
			return err == nil
		})
	})
}

// validationMessage flattens binder errors into a single client-facing message.
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "Invalid request format"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "servicetype":
		return fe.Field() + " must be one of SUNDAY_SERVICE, BIBLE_STUDY, SPECIAL, OTHER"
	case "datetime":
		return fe.Field() + " must be a date in YYYY-MM-DD format"
	default:
		return fe.Field() + " is invalid"
	}
}
