package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength    = 20
	maxMessageLength = 280
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("playername", func(fl validator.FieldLevel) bool {
			_, err := validateName(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

func validateRequest(req any) error {
	if err := requestValidator().Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid %s", verrs[0].Field())
		}
		return err
	}
	return nil
}

func validateName(name string) (string, error) {
	name = normalizeText(name)
	if name == "" {
		return "", errors.New("name is required")
	}
	if len(name) > maxNameLength {
		return "", fmt.Errorf("name must be at most %d characters", maxNameLength)
	}
	return name, nil
}

func validateMessage(message string) (string, error) {
	message = normalizeText(message)
	if message == "" {
		return "", errors.New("message is empty")
	}
	if len(message) > maxMessageLength {
		return "", fmt.Errorf("message must be at most %d characters", maxMessageLength)
	}
	return message, nil
}
