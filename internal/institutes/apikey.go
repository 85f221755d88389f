package institutes

import (
	"fmt"
	"math/rand/v2"
)

const apiKeyPrefix = "COACH_"

// generateAPIKey returns a fresh institute API key: fixed prefix plus a
// uniform random 4-digit suffix in [1000,9999]. Collisions are not
// pre-checked; the unique index on institutes.api_key rejects them.
func generateAPIKey() string {
	return fmt.Sprintf("%s%d", apiKeyPrefix, 1000+rand.IntN(9000))
}
