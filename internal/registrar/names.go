package registrar

import (
	"regexp"

	"github.com/GNSR-Network/registry_core/internal/contract"
)

// MaxNameLength is the longest registerable name.
const MaxNameLength = 32

// Names are 1-32 characters of alphanumerics and hyphens, with no leading
// or trailing hyphen. Dots and underscores are not registerable.
var namePattern = regexp.MustCompile(`^([a-zA-Z0-9][a-zA-Z0-9-]{0,30}[a-zA-Z0-9]|[a-zA-Z0-9])$`)

// ValidateName checks a registration name before any state is touched.
func ValidateName(name string) error {
	if name == "" {
		return contract.ErrValidation("name is required")
	}
	if len(name) > MaxNameLength {
		return contract.ErrValidation(
			"name exceeds the maximum length of %d characters", MaxNameLength)
	}
	if !namePattern.MatchString(name) {
		return contract.ErrValidation(
			"name may only contain alphanumerics and interior hyphens")
	}
	return nil
}
