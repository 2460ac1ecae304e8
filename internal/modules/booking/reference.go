package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// generateReference builds a booking reference that sorts by creation time:
// a fixed prefix, a second-resolution timestamp and a random disambiguator.
// Uniqueness is enforced by the index on booking_reference; on the (rare)
// collision the claim regenerates and retries.
func generateReference() string {
	ts := time.Now().UTC().Format("20060102150405")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "BK" + ts + suffix
}
