// Package dedupe decides which feed records are genuinely new. The seen-set
// is the notifier's only persistent state: a flat file of seen-keys that each
// run reads once and rewrites wholesale, so keys no longer in the feed age
// out on their own.
package dedupe

import "context"

// Store persists the set of seen-keys between invocations.
type Store interface {
	// Load returns every stored key. A store that has never been written
	// returns an empty set, not an error.
	Load(ctx context.Context) ([]string, error)
	// Save replaces the stored set with exactly the given keys. Saving an
	// empty set leaves the store untouched.
	Save(ctx context.Context, keys []string) error
}
