package enums

import "fmt"

// MovementType classifies a stock ledger entry.
type MovementType string

const (
	MovementTypeIn  MovementType = "in"
	MovementTypeOut MovementType = "out"
)

var validMovementTypes = []MovementType{
	MovementTypeIn,
	MovementTypeOut,
}

// String implements fmt.Stringer.
func (m MovementType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MovementType.
func (m MovementType) IsValid() bool {
	for _, candidate := range validMovementTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// Sign returns +1 for inbound stock and -1 for outbound.
func (m MovementType) Sign() int {
	if m == MovementTypeOut {
		return -1
	}
	return 1
}

// ParseMovementType converts raw input into a MovementType.
func ParseMovementType(value string) (MovementType, error) {
	for _, candidate := range validMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement type %q", value)
}
