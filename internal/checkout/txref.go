package checkout

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewTxRef generates a transaction reference for one checkout attempt:
// a timestamp plus a random suffix, unique with high probability but not
// cryptographically guaranteed. The server's unique index is the real
// safeguard.
func NewTxRef() string {
	return fmt.Sprintf("RW-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
