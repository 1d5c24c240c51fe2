package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/haiminhdev/meeting-agent/pkg/config"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with domain validations
// registered. The "audio_format" tag checks a path against the supported
// audio extensions.
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("audio_format", func(fl validator.FieldLevel) bool {
		return config.IsSupportedAudioFormat(fl.Field().String())
	})
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
