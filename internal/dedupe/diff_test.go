package dedupe

import (
	"reflect"
	"testing"

	"github.com/bakkerme/gh-notifier/internal/core"
)

func rec(id, updatedAt string) core.Record {
	return core.Record{ID: id, UpdatedAt: updatedAt}
}

func TestDiffFirstRunEverythingIsNew(t *testing.T) {
	t.Parallel()

	records := []core.Record{rec("1", "t1"), rec("2", "t2")}
	result := Diff(records, nil)

	if len(result.New) != 2 {
		t.Fatalf("expected 2 new records, got %d", len(result.New))
	}
	if !reflect.DeepEqual(result.Keys, []string{"1t1", "2t2"}) {
		t.Fatalf("unexpected keys: %v", result.Keys)
	}
}

func TestDiffSkipsSeenRecords(t *testing.T) {
	t.Parallel()

	records := []core.Record{rec("1", "t1"), rec("2", "t2"), rec("3", "t3")}
	result := Diff(records, []string{"2t2"})

	if len(result.New) != 2 {
		t.Fatalf("expected 2 new records, got %d", len(result.New))
	}
	if result.New[0].ID != "1" || result.New[1].ID != "3" {
		t.Fatalf("unexpected new records: %+v", result.New)
	}
	// Seen records still contribute their key to the next save.
	if !reflect.DeepEqual(result.Keys, []string{"1t1", "2t2", "3t3"}) {
		t.Fatalf("unexpected keys: %v", result.Keys)
	}
}

func TestDiffPrunesDepartedKeys(t *testing.T) {
	t.Parallel()

	records := []core.Record{rec("5", "t5")}
	result := Diff(records, []string{"1t1", "2t2", "5t5"})

	if len(result.New) != 0 {
		t.Fatalf("expected no new records, got %+v", result.New)
	}
	if !reflect.DeepEqual(result.Keys, []string{"5t5"}) {
		t.Fatalf("keys must only reflect the current feed, got %v", result.Keys)
	}
}

func TestDiffUpdatedThreadSurfacesAgain(t *testing.T) {
	t.Parallel()

	// Same thread ID, newer update timestamp: old key no longer matches.
	records := []core.Record{rec("42", "2026-08-21T12:00:00Z")}
	result := Diff(records, []string{"422026-08-20T12:00:00Z"})

	if len(result.New) != 1 {
		t.Fatalf("updated thread should count as new, got %+v", result.New)
	}
	if result.Keys[0] != "422026-08-21T12:00:00Z" {
		t.Fatalf("unexpected key: %q", result.Keys[0])
	}
}

func TestDiffPreservesFeedOrder(t *testing.T) {
	t.Parallel()

	records := []core.Record{rec("c", "3"), rec("a", "1"), rec("b", "2")}
	result := Diff(records, nil)

	wantOrder := []string{"c", "a", "b"}
	for i, r := range result.New {
		if r.ID != wantOrder[i] {
			t.Fatalf("feed order not preserved: got %+v", result.New)
		}
	}
	if !reflect.DeepEqual(result.Keys, []string{"c3", "a1", "b2"}) {
		t.Fatalf("unexpected keys: %v", result.Keys)
	}
}

func TestDiffEmptyFeed(t *testing.T) {
	t.Parallel()

	result := Diff(nil, []string{"1t1"})
	if len(result.New) != 0 || len(result.Keys) != 0 {
		t.Fatalf("empty feed should produce empty result, got %+v", result)
	}
}

func TestDiffMatchingIsExact(t *testing.T) {
	t.Parallel()

	// No trimming, no case folding: near-miss keys do not match.
	records := []core.Record{rec("1", "T1")}
	result := Diff(records, []string{"1t1", " 1T1"})

	if len(result.New) != 1 {
		t.Fatalf("near-miss keys must not suppress a record, got %+v", result.New)
	}
}
