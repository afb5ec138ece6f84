// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package plugin

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewID generates a fresh plugin identifier. ULIDs are monotonic within
// the process, so an identifier is never handed out twice even after the
// plugin it named has been unloaded.
func NewID() ulid.ULID {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// ParseID parses a plugin identifier string.
func ParseID(s string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("invalid plugin id %q: %w", s, err)
	}
	return id, nil
}
