package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// LineHash collapses the variant key (size, type, customization) into
// a fixed-width string so the line-identity unique index can include
// it without tripping over NULL columns. Two requests for the same
// variant always hash identically; whitespace differences do not
// create separate lines.
func LineHash(size, itemType, customization *string) string {
	h := sha256.New()
	for _, part := range []*string{size, itemType, customization} {
		if part != nil {
			h.Write([]byte(strings.TrimSpace(*part)))
		}
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
