package gateway

import (
	"regexp"

	"github.com/GNSR-Network/registry_core/internal/contract"
)

// Settings field limits.
const (
	MaxLabelLength = 64
	MaxNoteLength  = 256
	MinPort        = 1
	MaxPort        = 65535
)

// Dotted hostname labels: alphanumerics with interior hyphens, at least
// one dot, alphabetic TLD. Underscores are not valid hostnames.
var fqdnPattern = regexp.MustCompile(
	`^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

func validateLabel(label string) error {
	if label == "" {
		return contract.ErrValidation("label is required")
	}
	if len(label) > MaxLabelLength {
		return contract.ErrValidation("label exceeds %d characters", MaxLabelLength)
	}
	return nil
}

func validateFQDN(fqdn string) error {
	if !fqdnPattern.MatchString(fqdn) {
		return contract.ErrValidation("fqdn %q is not a valid hostname", fqdn)
	}
	return nil
}

func validatePort(port int) error {
	if port < MinPort || port > MaxPort {
		return contract.ErrValidation("port must be between %d and %d", MinPort, MaxPort)
	}
	return nil
}

func validateProtocol(protocol string) error {
	if protocol != "http" && protocol != "https" {
		return contract.ErrValidation(`protocol must be "http" or "https"`)
	}
	return nil
}

func validateNote(note string) error {
	if len(note) > MaxNoteLength {
		return contract.ErrValidation("note exceeds %d characters", MaxNoteLength)
	}
	return nil
}

func validateAllowList(list []string) error {
	for _, addr := range list {
		if !contract.ValidTxID(addr) {
			return contract.ErrValidation("delegate allow list entry %q is not a valid address", addr)
		}
	}
	return nil
}

// ValidateSettings checks a complete settings object field by field.
func ValidateSettings(gs contract.GatewaySettings) error {
	if err := validateLabel(gs.Label); err != nil {
		return err
	}
	if err := validateFQDN(gs.FQDN); err != nil {
		return err
	}
	if err := validatePort(gs.Port); err != nil {
		return err
	}
	if err := validateProtocol(gs.Protocol); err != nil {
		return err
	}
	if err := validateNote(gs.Note); err != nil {
		return err
	}
	return validateAllowList(gs.DelegateAllowList)
}
