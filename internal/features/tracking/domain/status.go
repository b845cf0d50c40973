package domain

import (
	"fmt"
	"strings"
)

// Status is a shipment status. Stored records always carry one of the
// enumerated values; derivation code also accepts free text.
type Status string

const (
	// StatusPackageReceived indicates the carrier has accepted the package.
	StatusPackageReceived Status = "Package Received"
	// StatusProcessing indicates the package is being sorted at a facility.
	StatusProcessing Status = "Processing"
	// StatusInTransit indicates the package is moving between facilities.
	StatusInTransit Status = "In Transit"
	// StatusOutForDelivery indicates the package is on the final delivery vehicle.
	StatusOutForDelivery Status = "Out for Delivery"
	// StatusDelivered indicates the package reached its destination.
	StatusDelivered Status = "Delivered"
	// StatusException indicates a delay or problem with the shipment.
	StatusException Status = "Exception"
)

// Statuses lists the closed enumeration in pipeline order.
var Statuses = []Status{
	StatusPackageReceived,
	StatusProcessing,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
	StatusException,
}

// IsValid reports whether s is exactly one of the enumerated statuses.
func (s Status) IsValid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus validates raw against the closed enumeration.
// Surrounding whitespace is ignored, case is not.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, raw)
	}
	return s, nil
}

// normalizeStatus prepares status text for keyword matching.
func normalizeStatus(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
