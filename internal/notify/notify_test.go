package notify

import (
	"testing"

	"github.com/aknutsen/depositor/internal/deposit"
)

func TestMissingORCID(t *testing.T) {
	creators := []deposit.Creator{
		{ID: "u1", Name: "Publisher"},
		{ID: "u2", Name: "Bob"},
		{ID: "u3", Name: "Carol", ORCID: "0000-0002-1825-0097"},
		{ID: "u4", Name: "Hidden", Hidden: true},
		{Name: "Anonymous Guest"},
	}

	got := MissingORCID("u1", creators)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[0].Name != "Bob" || got[1].Name != "Anonymous Guest" {
		t.Errorf("got = %+v", got)
	}
}

func TestMissingORCIDEmptyResult(t *testing.T) {
	creators := []deposit.Creator{
		{ID: "u1", Name: "Publisher"},
		{ID: "u2", Name: "Carol", ORCID: "0000-0002-1825-0097"},
	}

	got := MissingORCID("u1", creators)
	if got == nil {
		t.Fatal("want empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("got = %+v, want empty", got)
	}
}

func TestMissingORCIDNoPublisherID(t *testing.T) {
	creators := []deposit.Creator{
		{ID: "u1", Name: "Alice"},
	}

	// Without a publisher ID every unidentified creator qualifies.
	got := MissingORCID("", creators)
	if len(got) != 1 {
		t.Errorf("got = %+v, want 1 entry", got)
	}
}
