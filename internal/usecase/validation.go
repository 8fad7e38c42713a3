package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/xavierca1/leadzone/internal/entity"
)

const (
	maxIDLength     = 128
	maxNotesLength  = 5000
	maxFollowupDays = 365
)

var zipPattern = regexp.MustCompile(`^(\d{5})(?:-\d{4})?$`)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationFailed(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return validationError("validation failed: " + strings.Join(parts, ", "))
}

// NormalizeZip returns the 5-digit claim key of a US zip or ZIP+4.
func NormalizeZip(zip string) (string, bool) {
	m := zipPattern.FindStringSubmatch(strings.TrimSpace(zip))
	if m == nil {
		return "", false
	}
	return m[1], true
}

func checkID(errs []ValidationError, field, value string) []ValidationError {
	v := strings.TrimSpace(value)
	switch {
	case v == "":
		return append(errs, ValidationError{field, "is required"})
	case len(v) > maxIDLength:
		return append(errs, ValidationError{field, "is too long"})
	}
	return errs
}

func checkZip(errs []ValidationError, field, value string) ([]ValidationError, string) {
	if strings.TrimSpace(value) == "" {
		return append(errs, ValidationError{field, "is required"}), ""
	}
	zip, ok := NormalizeZip(value)
	if !ok {
		return append(errs, ValidationError{field, "must be a valid zip code (XXXXX or XXXXX-XXXX)"}), ""
	}
	return errs, zip
}

func checkLeadPatch(errs []ValidationError, patch entity.LeadPatch) []ValidationError {
	if patch.Empty() {
		errs = append(errs, ValidationError{"status", "status or notes is required"})
	}
	if patch.Status != nil && !entity.IsLeadStatus(*patch.Status) {
		errs = append(errs, ValidationError{"status", fmt.Sprintf("must be a non-blank label of at most %d characters", entity.MaxLeadStatusLength)})
	}
	if patch.Notes != nil && len(*patch.Notes) > maxNotesLength {
		errs = append(errs, ValidationError{"notes", fmt.Sprintf("must not exceed %d characters", maxNotesLength)})
	}
	return errs
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
