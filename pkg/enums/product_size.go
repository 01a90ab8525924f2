package enums

import "fmt"

// ProductSize enumerates jersey sizing options.
type ProductSize string

const (
	ProductSizeXS      ProductSize = "XS"
	ProductSizeS       ProductSize = "S"
	ProductSizeM       ProductSize = "M"
	ProductSizeL       ProductSize = "L"
	ProductSizeXL      ProductSize = "XL"
	ProductSizeXXL     ProductSize = "XXL"
	ProductSizeXXXL    ProductSize = "XXXL"
	ProductSizeOneSize ProductSize = "One Size"
)

var validProductSizes = []ProductSize{
	ProductSizeXS,
	ProductSizeS,
	ProductSizeM,
	ProductSizeL,
	ProductSizeXL,
	ProductSizeXXL,
	ProductSizeXXXL,
	ProductSizeOneSize,
}

// String implements fmt.Stringer.
func (p ProductSize) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductSize.
func (p ProductSize) IsValid() bool {
	for _, candidate := range validProductSizes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductSize converts raw input into a ProductSize.
func ParseProductSize(value string) (ProductSize, error) {
	for _, candidate := range validProductSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product size %q", value)
}
