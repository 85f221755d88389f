package cache

import "fmt"

// InstituteConfigKey is the cache key for an institute resolved by API key.
func InstituteConfigKey(apiKey string) string {
	return fmt.Sprintf("institute:config:%s", apiKey)
}
