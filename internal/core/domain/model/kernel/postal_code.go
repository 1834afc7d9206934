package kernel

import (
	"strconv"

	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

const (
	// PostalCodeMin is the smallest accepted postal code.
	PostalCodeMin = 1
	// PostalCodeMax is the largest accepted postal code (five digits).
	PostalCodeMax = 99999
)

var ErrPostalCodeIsNotConstructed = errs.NewValueIsRequiredError(
	"postal code must be created via NewPostalCode")

// PostalCode is a delivery area identifier. Partners declare the set of codes
// they serve, shipments carry a destination code, and every timeline event is
// stamped with the code where it was recorded.
type PostalCode struct { //nolint:recvcheck //using for validation
	value int
	guard guard.ConstructorGuard
}

func NewPostalCode(value int) (PostalCode, error) {
	if value < PostalCodeMin || value > PostalCodeMax {
		return PostalCode{}, errs.NewValueIsOutOfRangeError("postal code", value, PostalCodeMin, PostalCodeMax)
	}

	return PostalCode{value: value, guard: guard.NewConstructorGuard()}, nil
}

// MustPostalCode is NewPostalCode for literals known to be valid.
func MustPostalCode(value int) PostalCode {
	code, err := NewPostalCode(value)
	if err != nil {
		panic(err)
	}
	return code
}

func (p PostalCode) Validate() error {
	return p.guard.Validate(ErrPostalCodeIsNotConstructed)
}

func (p PostalCode) Value() int {
	return p.value
}

func (p PostalCode) String() string {
	return strconv.Itoa(p.value)
}

func (p PostalCode) IsEqual(other PostalCode) bool {
	return p.value == other.value
}
