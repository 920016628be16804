package tree

import (
	"crypto/rand"
	"sync"
	"time"
)

// Push id alphabet, in ASCII order so that ids sort lexicographically.
const pushChars = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

var (
	lastPushTime  int64
	lastRandChars [12]byte
	pushIDLock    sync.Mutex
)

// NewPushID returns a new 20 character key that sorts after all keys created
// before it in this process: 8 characters of millisecond timestamp followed
// by 12 random characters, which are incremented for keys created within the
// same millisecond.
func NewPushID() string {
	pushIDLock.Lock()
	defer pushIDLock.Unlock()

	now := time.Now().UnixMilli()
	if now < lastPushTime {
		// Clock went backwards.
		now = lastPushTime
	}
	duplicateTime := now == lastPushTime
	lastPushTime = now

	var id [20]byte
	for i := 7; i >= 0; i-- {
		id[i] = pushChars[now%64]
		now /= 64
	}

	if duplicateTime {
		i := len(lastRandChars) - 1
		for ; i >= 0 && lastRandChars[i] == 63; i-- {
			lastRandChars[i] = 0
		}
		if i >= 0 {
			lastRandChars[i]++
		}
	} else {
		if _, err := rand.Read(lastRandChars[:]); err != nil {
			panic(err)
		}
		for i := range lastRandChars {
			lastRandChars[i] &= 63
		}
	}

	for i, c := range lastRandChars {
		id[8+i] = pushChars[c]
	}
	return string(id[:])
}
