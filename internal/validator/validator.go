package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/movie-booking-web/internal/domain"
)

const (
	MinSeats = 1
	MaxSeats = 10
)

const (
	ErrInvalidMovie    = "Invalid movie selection. Please try again."
	ErrInvalidShow     = "Invalid show timing selection. Please try again."
	ErrNameRequired    = "Please enter your name."
	ErrInvalidAge      = "Please enter a valid age."
	ErrGenderRequired  = "Please select your gender."
	ErrInvalidSeats    = "Please select a valid number of seats (1-10)."
	ErrSeatsAvailable  = "Only %d seats available for this show."
	ErrFieldsRequired  = "Please fill in all fields"
	ErrDefaultInvalid  = "is invalid"
	ErrMinLength       = "must be at least %s characters long"
	ErrMaxLength       = "must be at most %s characters long"
	ErrInvalidEmail    = "must be a valid email address"
	ErrRequired        = "is required"
	ErrNoSnackSelected = "Please select at least one snack item"
	ErrSnackStock      = "Cannot order more than %d of %s due to stock limitations"
	ErrUnknownSnack    = "Selected snack item is no longer available"
)

var bookingMessages = map[string]string{
	"MovieID": ErrInvalidMovie,
	"ShowID":  ErrInvalidShow,
	"Name":    ErrNameRequired,
	"Age":     ErrInvalidAge,
	"Gender":  ErrGenderRequired,
	"Seats":   ErrInvalidSeats,
}

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("notblank", validateNotBlank)

	return validator
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateBooking checks a draft in field order and reports only the first
// violated rule.
func ValidateBooking(v *validator.Validate, draft domain.BookingDraft) error {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Gender = strings.TrimSpace(draft.Gender)

	err := v.Struct(draft)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
			return err
		}

		field := validationErrs[0].StructField()
		return domain.NewValidationError(field, bookingMessages[field])
	}

	if draft.SeatCap != nil && draft.Seats > *draft.SeatCap {
		return domain.NewValidationError("Seats", fmt.Sprintf(ErrSeatsAvailable, *draft.SeatCap))
	}

	return nil
}

// ValidateForm validates login and signup input and reports the first problem
// as a readable sentence.
func ValidateForm(v *validator.Validate, input any) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	fe := validationErrs[0]
	if fe.Tag() == "required" || fe.Tag() == "notblank" {
		return domain.NewValidationError(fe.StructField(), ErrFieldsRequired)
	}

	reason := fmt.Sprintf("%s %s", fe.StructField(), ValidationMessage(fe))

	return domain.NewValidationError(fe.StructField(), reason)
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required", "notblank":
		return ErrRequired
	case "email":
		return ErrInvalidEmail
	case "min":
		if err.Kind() == reflect.Int {
			return fmt.Sprintf("must be at least %s", err.Param())
		}
		return fmt.Sprintf(ErrMinLength, err.Param())
	case "max":
		if err.Kind() == reflect.Int {
			return fmt.Sprintf("must be at most %s", err.Param())
		}
		return fmt.Sprintf(ErrMaxLength, err.Param())
	default:
		return ErrDefaultInvalid
	}
}
