package orders

import (
	"fmt"
	"math/rand"
	"time"
)

// orderNumberPrefix starts every public order reference.
const orderNumberPrefix = "ORD"

// maxOrderNumberAttempts bounds the regeneration loop on collision.
const maxOrderNumberAttempts = 5

// newOrderNumber builds a public order reference from the placement time plus
// three random digits. Collisions are possible within a millisecond, so the
// caller retries against the unique index.
func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("%s%d%03d", orderNumberPrefix, now.UnixMilli(), rand.Intn(1000))
}
