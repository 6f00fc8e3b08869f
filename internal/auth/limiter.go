package auth

import (
	"sync"
	"time"
)

// loginTracker counts consecutive failures per username and locks the name
// out once the limit is reached.
type loginTracker struct {
	mutex       sync.Mutex
	entries     map[string]*loginEntry
	maxAttempts int
	lockout     time.Duration
	cleanup     time.Duration

	// now is replaceable in tests
	now func() time.Time
}

type loginEntry struct {
	failures    int
	lockedUntil time.Time
	lastSeen    time.Time
}

func newLoginTracker(maxAttempts int, lockout time.Duration) *loginTracker {
	lt := &loginTracker{
		entries:     make(map[string]*loginEntry),
		maxAttempts: maxAttempts,
		lockout:     lockout,
		cleanup:     time.Minute * 10,
		now:         time.Now,
	}

	// Start cleanup goroutine
	go lt.cleanupExpiredEntries()
	return lt
}

// Locked reports whether the username is currently locked out.
func (lt *loginTracker) Locked(username string) bool {
	lt.mutex.Lock()
	defer lt.mutex.Unlock()

	entry, exists := lt.entries[username]
	if !exists {
		return false
	}
	return lt.now().Before(entry.lockedUntil)
}

// Fail records a failed attempt and returns true when the attempt triggers
// a lockout.
func (lt *loginTracker) Fail(username string) bool {
	lt.mutex.Lock()
	defer lt.mutex.Unlock()

	now := lt.now()
	entry, exists := lt.entries[username]
	if !exists {
		entry = &loginEntry{}
		lt.entries[username] = entry
	}

	entry.lastSeen = now
	entry.failures++

	if entry.failures >= lt.maxAttempts {
		entry.lockedUntil = now.Add(lt.lockout)
		entry.failures = 0
		return true
	}
	return false
}

// Reset clears the failure count after a successful login.
func (lt *loginTracker) Reset(username string) {
	lt.mutex.Lock()
	defer lt.mutex.Unlock()

	delete(lt.entries, username)
}

func (lt *loginTracker) cleanupExpiredEntries() {
	ticker := time.NewTicker(lt.cleanup)
	defer ticker.Stop()

	for range ticker.C {
		lt.mutex.Lock()
		now := lt.now()
		for username, entry := range lt.entries {
			if now.Sub(entry.lastSeen) > lt.cleanup && now.After(entry.lockedUntil) {
				delete(lt.entries, username)
			}
		}
		lt.mutex.Unlock()
	}
}
