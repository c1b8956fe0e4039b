package creators

import (
	"reflect"
	"testing"

	"github.com/aknutsen/depositor/internal/deposit"
)

func TestMergeAppendsUnmatched(t *testing.T) {
	base := []deposit.Creator{
		{Name: "Alice", ORCID: "0000-0002-1825-0097"},
	}
	incoming := []deposit.Creator{
		{Name: "Bob"},
	}

	got := Merge(base, incoming)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "Alice" || got[1].Name != "Bob" {
		t.Errorf("order not preserved: %+v", got)
	}
	// Base creator with no matching incoming key is never dropped.
	if got[0].ORCID != "0000-0002-1825-0097" {
		t.Errorf("base ORCID lost: %+v", got[0])
	}
}

func TestMergeUpgradeByName(t *testing.T) {
	base := []deposit.Creator{
		{Name: "Carol"},
	}
	incoming := []deposit.Creator{
		{Name: "Carol", ORCID: "0000-0002-1694-233X"},
	}

	got := Merge(base, incoming)
	if len(got) != 1 {
		t.Fatalf("upgrade duplicated Carol: %+v", got)
	}
	if got[0].ORCID != "0000-0002-1694-233X" {
		t.Errorf("ORCID not populated: %+v", got[0])
	}
}

func TestMergeIncomingWinsOnlyWhenNonEmpty(t *testing.T) {
	base := []deposit.Creator{
		{ID: "u1", Name: "Dana", ORCID: "0000-0002-1825-0097", Affiliation: "Example University"},
	}
	incoming := []deposit.Creator{
		{ID: "u1", Name: "Dana Q."}, // Sparse form edit: no ORCID, no affiliation
	}

	got := Merge(base, incoming)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	c := got[0]
	if c.Name != "Dana Q." {
		t.Errorf("non-empty incoming name should win: %+v", c)
	}
	if c.ORCID != "0000-0002-1825-0097" || c.Affiliation != "Example University" {
		t.Errorf("richer base data lost: %+v", c)
	}
}

func TestMergeMatchPriority(t *testing.T) {
	// Incoming carries an ORCID matching one base entry and a name
	// matching another; the ORCID match must win.
	base := []deposit.Creator{
		{Name: "Original", ORCID: "0000-0002-1825-0097"},
		{Name: "Eve"},
	}
	incoming := []deposit.Creator{
		{Name: "Eve", ORCID: "0000-0002-1825-0097"},
	}

	got := Merge(base, incoming)
	if got[0].Name != "Eve" {
		t.Errorf("ORCID-matched entry should take incoming name: %+v", got)
	}
	if got[1].Name != "Eve" || got[1].ORCID != "" {
		t.Errorf("name-keyed entry should be untouched: %+v", got[1])
	}
}

func TestMergeIdempotent(t *testing.T) {
	base := []deposit.Creator{
		{Name: "Carol"},
		{ID: "u2", Name: "Alice"},
	}
	incoming := []deposit.Creator{
		{Name: "Carol", ORCID: "0000-0002-1694-233X"},
		{Name: "Bob", Affiliation: "Elsewhere"},
		{ID: "u2", Name: "Alice B."},
	}

	once := Merge(base, incoming)
	twice := Merge(once, incoming)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Merge is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMergeHiddenFollowsIncoming(t *testing.T) {
	base := []deposit.Creator{
		{ID: "u1", Name: "Alice", Hidden: true},
	}
	incoming := []deposit.Creator{
		{ID: "u1", Name: "Alice"},
	}

	got := Merge(base, incoming)
	if got[0].Hidden {
		t.Errorf("incoming hidden flag should win: %+v", got[0])
	}
}

func TestMergeLaterIncomingMatchesUpgradedEntry(t *testing.T) {
	// The first incoming entry gives Carol an ORCID; the second matches
	// her by that fresh ORCID and must not append a duplicate.
	base := []deposit.Creator{
		{Name: "Carol"},
	}
	incoming := []deposit.Creator{
		{Name: "Carol", ORCID: "0000-0002-1694-233X"},
		{ORCID: "0000-0002-1694-233X", Affiliation: "Example University"},
	}

	got := Merge(base, incoming)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1: %+v", len(got), got)
	}
	if got[0].Affiliation != "Example University" {
		t.Errorf("second incoming entry not merged: %+v", got[0])
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name    string
		creator deposit.Creator
		want    string
	}{
		{"orcid beats id and name", deposit.Creator{ID: "u1", Name: "A", ORCID: "0000-0002-1825-0097"}, "orcid:0000-0002-1825-0097"},
		{"id beats name", deposit.Creator{ID: "u1", Name: "A"}, "id:u1"},
		{"name only", deposit.Creator{Name: "A"}, "name:A"},
		{"no identity", deposit.Creator{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.creator); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}
