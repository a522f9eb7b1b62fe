package cache

import "strings"

// ReviewKeyPrefix namespaces review entries in the shared store.
const ReviewKeyPrefix = "review:"

// ReviewKey returns the cache key for a product identifier.
// The identifier is used exactly as given: no trimming, no case folding.
func ReviewKey(productID string) string {
	return ReviewKeyPrefix + productID
}

// ProductFromKey reverses ReviewKey.
func ProductFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, ReviewKeyPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, ReviewKeyPrefix), true
}
