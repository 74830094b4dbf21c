// Package ids mints ULIDs for entity primary keys. ULIDs sort
// lexicographically by creation time, which keeps id-ordered scans and
// created-at tiebreaks consistent.
package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

func IsValid(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}
