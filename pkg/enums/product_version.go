package enums

// ProductVersion names the jersey variants that carry their own price.
type ProductVersion string

const (
	ProductVersionFan    ProductVersion = "Fan Version"
	ProductVersionPlayer ProductVersion = "Player Version"
)

// String implements fmt.Stringer.
func (p ProductVersion) String() string {
	return string(p)
}
