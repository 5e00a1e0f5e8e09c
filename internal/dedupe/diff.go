package dedupe

import "github.com/bakkerme/gh-notifier/internal/core"

// Result is the outcome of diffing a feed snapshot against the seen-set.
type Result struct {
	// New holds records absent from the seen-set, in feed order.
	New []core.Record
	// Keys holds the seen-key of every fetched record, new or not. Saving
	// exactly this slice is what prunes keys that have left the feed.
	Keys []string
}

// Diff partitions records by membership in the stored key set. Matching is
// exact string equality on seen-keys; nothing is parsed or normalized.
func Diff(records []core.Record, seen []string) Result {
	seenSet := make(map[string]struct{}, len(seen))
	for _, key := range seen {
		seenSet[key] = struct{}{}
	}

	result := Result{Keys: make([]string, 0, len(records))}
	for _, rec := range records {
		key := rec.SeenKey()
		result.Keys = append(result.Keys, key)
		if _, ok := seenSet[key]; ok {
			continue
		}
		result.New = append(result.New, rec)
	}
	return result
}
