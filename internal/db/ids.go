package db

import (
	"strconv"
	"sync"
	"time"
)

var (
	idMu   sync.Mutex
	lastID int64
)

// NewID returns a millisecond-timestamp-derived id, strictly increasing
// within the process so records created in the same millisecond never
// collide.
func NewID() int64 {
	idMu.Lock()
	defer idMu.Unlock()
	id := time.Now().UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}

// NewStringID returns NewID formatted as a decimal string.
func NewStringID() string {
	return strconv.FormatInt(NewID(), 10)
}
