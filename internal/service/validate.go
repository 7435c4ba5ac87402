package service

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/luna/taskmanager/internal/apperr"
	"github.com/luna/taskmanager/internal/models"
)

const (
	maxNameLength        = 64
	maxDescriptionLength = 256
)

func invalid(msg string) error {
	return apperr.New(apperr.ErrInvalidValue, msg)
}

func validateName(name *string) error {
	if name == nil || strings.TrimSpace(*name) == "" {
		return invalid(apperr.NameMandatoryMessage)
	}
	if utf8.RuneCountInString(*name) > maxNameLength {
		return invalid(apperr.NameMaxLengthMessage)
	}
	return nil
}

// validateDescription checks the length of an optional description; a nil
// description passes.
func validateDescription(desc *string) error {
	if desc != nil && utf8.RuneCountInString(*desc) > maxDescriptionLength {
		return invalid(apperr.DescriptionMaxLengthMessage)
	}
	return nil
}

func requireDescription(desc *string) error {
	if desc == nil {
		return invalid(apperr.DescriptionMandatoryMessage)
	}
	return validateDescription(desc)
}

func parseUUID(raw *string) (uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return uuid.Nil, invalid(apperr.UUIDMandatoryMessage)
	}
	id, err := uuid.Parse(*raw)
	if err != nil || len(*raw) != 36 {
		return uuid.Nil, invalid(apperr.UUIDInvalidMessage)
	}
	return id, nil
}

func parseStatus(raw *string) (*models.TaskStatus, error) {
	if raw == nil {
		return nil, nil
	}
	st, ok := models.ParseTaskStatus(*raw)
	if !ok {
		return nil, invalid(apperr.InvalidStatusMessage)
	}
	return &st, nil
}
