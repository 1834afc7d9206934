package shipment

import (
	"fmt"

	"fastship/internal/pkg/errs"
)

// TagName is one entry of the closed tag catalogue. Tags attach handling
// instructions to a shipment.
type TagName string

const (
	TagExpress               TagName = "express"
	TagStandard              TagName = "standard"
	TagFragile               TagName = "fragile"
	TagHeavy                 TagName = "heavy"
	TagInternational         TagName = "international"
	TagDomestic              TagName = "domestic"
	TagTemperatureControlled TagName = "temperature_controlled"
	TagGift                  TagName = "gift"
	TagReturn                TagName = "return"
	TagDocument              TagName = "document"
)

// AllTags lists the catalogue in its canonical order.
func AllTags() []TagName {
	return []TagName{
		TagExpress, TagStandard, TagFragile, TagHeavy, TagInternational,
		TagDomestic, TagTemperatureControlled, TagGift, TagReturn, TagDocument,
	}
}

// ParseTagName validates a tag name coming from a caller.
func ParseTagName(name string) (TagName, error) {
	tag := TagName(name)
	if err := tag.Validate(); err != nil {
		return "", err
	}
	return tag, nil
}

func (t TagName) Validate() error {
	if t.Instruction() == "" {
		return errs.NewValueIsInvalidErrorWithCause("tag", fmt.Errorf("%q is not a known tag", string(t)))
	}
	return nil
}

// Instruction returns the handling instruction printed for the tag, empty for unknown names.
func (t TagName) Instruction() string {
	switch t {
	case TagExpress:
		return "Deliver within 24 hours"
	case TagStandard:
		return "Deliver within 3 to 5 business days"
	case TagFragile:
		return "Handle with care, keep upright and do not stack"
	case TagHeavy:
		return "Use lifting equipment, two person handling"
	case TagInternational:
		return "Customs documents must travel with the parcel"
	case TagDomestic:
		return "Domestic route, no customs clearance"
	case TagTemperatureControlled:
		return "Keep between 2 and 8 degrees Celsius"
	case TagGift:
		return "Do not include the invoice in the parcel"
	case TagReturn:
		return "Return to the seller address on arrival"
	case TagDocument:
		return "Do not fold, keep dry"
	}
	return ""
}

func (t TagName) String() string {
	return string(t)
}
