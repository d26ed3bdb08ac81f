package recs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Key: recs:user:{hash_of_user_id}. Hashing keeps raw user ids out of the
// keyspace, same scheme the platform uses for list caches.
func cacheKeyRecommendations(userID string) string {
	hash := sha256.Sum256([]byte(userID))
	return fmt.Sprintf("recs:user:%s", hex.EncodeToString(hash[:]))
}
