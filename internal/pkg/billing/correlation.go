package billing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// parseCorrelationID decodes the Payment id an adapter embedded in the
// outbound charge. Returns zero when the field is missing or malformed; the
// reconciler treats zero as a reconciliation anomaly.
func parseCorrelationID(raw string) uint {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func statusError(status int) error {
	return fmt.Errorf("unexpected status %d", status)
}

// payloadHash gives payloads without a provider event id a stable dedup key.
func payloadHash(rawBody []byte) string {
	sum := sha256.Sum256(rawBody)
	return "hash:" + hex.EncodeToString(sum[:])
}
