package tokenstore

import "sync"

// in-memory jti revocation store; logout revokes, auth checks. For multi
// process deployments move this to Redis or the DB.
var (
	mu            sync.RWMutex
	revokedTokens = map[string]struct{}{}
)

func RevokeToken(jti string) {
	if jti == "" {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	revokedTokens[jti] = struct{}{}
}

func IsRevoked(jti string) bool {
	if jti == "" {
		return false
	}
	mu.RLock()
	defer mu.RUnlock()
	_, ok := revokedTokens[jti]
	return ok
}

// Reset clears the store; tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	revokedTokens = map[string]struct{}{}
}
