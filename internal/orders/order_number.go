package orders

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// newOrderNumber mints a customer-facing reference. The millisecond
// prefix keeps numbers roughly sortable; the random suffix breaks ties
// between orders created in the same millisecond.
func newOrderNumber() (string, error) {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("order number entropy: %w", err)
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), strings.ToUpper(hex.EncodeToString(suffix))), nil
}
