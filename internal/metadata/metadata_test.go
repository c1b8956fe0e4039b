package metadata

import (
	"reflect"
	"testing"

	"github.com/aknutsen/depositor/internal/deposit"
)

func TestCleanForSubmissionStripsDOI(t *testing.T) {
	md := map[string]any{
		"title":   "A thread",
		"doi":     "10.5072/zenodo.1",
		"doi_url": "https://doi.org/10.5072/zenodo.1",
	}

	got := CleanForSubmission(md)
	if _, ok := got["doi"]; ok {
		t.Error("doi should be stripped unconditionally")
	}
	if _, ok := got["doi_url"]; ok {
		t.Error("doi_url should be stripped unconditionally")
	}
	if got["title"] != "A thread" {
		t.Errorf("title = %v, want %q", got["title"], "A thread")
	}
	// Input must not be mutated.
	if _, ok := md["doi"]; !ok {
		t.Error("input map was modified")
	}
}

func TestCleanForSubmissionIdempotent(t *testing.T) {
	clean := map[string]any{
		"title":       "A thread",
		"description": "Long enough description.",
		"upload_type": "publication",
		"license":     "cc-by-4.0",
		"keywords":    []string{"science", "discussion"},
		"subjects": []any{
			map[string]any{"term": "Biology", "identifier": "b1"},
		},
	}

	once := CleanForSubmission(clean)
	twice := CleanForSubmission(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("cleaning is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
	if !reflect.DeepEqual(once["keywords"], []string{"science", "discussion"}) {
		t.Errorf("keywords = %+v", once["keywords"])
	}
}

func TestCleanForSubmissionKeywords(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    []string
		dropped bool
	}{
		{
			name:  "comma separated string",
			input: "alpha, beta , ,gamma",
			want:  []string{"alpha", "beta", "gamma"},
		},
		{
			name:  "list of any",
			input: []any{" alpha ", "", "beta", nil},
			want:  []string{"alpha", "beta"},
		},
		{
			name:    "unsupported shape dropped",
			input:   42,
			dropped: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanForSubmission(map[string]any{"title": "t", "keywords": tt.input})
			kw, present := got["keywords"]
			if tt.dropped {
				if present {
					t.Errorf("keywords should be dropped, got %+v", kw)
				}
				return
			}
			if !reflect.DeepEqual(kw, tt.want) {
				t.Errorf("keywords = %+v, want %+v", kw, tt.want)
			}
		})
	}
}

func TestCleanForSubmissionSubjects(t *testing.T) {
	got := CleanForSubmission(map[string]any{
		"title": "t",
		"subjects": []any{
			map[string]any{},
			map[string]any{"term": "", "identifier": nil, "refs": []any{}},
			map[string]any{"term": "Biology"},
		},
	})

	subjects, ok := got["subjects"].([]any)
	if !ok {
		t.Fatalf("subjects = %T, want []any", got["subjects"])
	}
	if len(subjects) != 1 {
		t.Fatalf("len(subjects) = %d, want 1", len(subjects))
	}

	// Non-list subjects field is dropped entirely.
	got = CleanForSubmission(map[string]any{"title": "t", "subjects": "Biology"})
	if _, present := got["subjects"]; present {
		t.Error("non-list subjects should be dropped")
	}
}

func TestCleanForSubmissionDropsEmpties(t *testing.T) {
	got := CleanForSubmission(map[string]any{
		"title":       "t",
		"description": "",
		"notes":       nil,
		"license":     "cc-by-4.0",
	})

	if _, present := got["description"]; present {
		t.Error("empty string value should be dropped")
	}
	if _, present := got["notes"]; present {
		t.Error("nil value should be dropped")
	}
	if got["license"] != "cc-by-4.0" {
		t.Errorf("license = %v", got["license"])
	}
}

func TestFormatCreatorsZenodo(t *testing.T) {
	creators := []deposit.Creator{
		{Name: "Doe, Jane", ORCID: "0000-0002-1825-0097", Affiliation: "Example University"},
		{Name: "Smith, Bob"},
		{Name: "Hidden, Person", Hidden: true},
		{ORCID: "0000-0002-1694-233X"}, // No name, not visible
	}

	got := FormatCreators(creators, deposit.ProviderZenodo)
	list, ok := got["creators"].([]any)
	if !ok {
		t.Fatalf("creators = %T, want []any", got["creators"])
	}
	if len(list) != 2 {
		t.Fatalf("len(creators) = %d, want 2", len(list))
	}

	first := list[0].(map[string]any)
	if first["name"] != "Doe, Jane" || first["orcid"] != "0000-0002-1825-0097" || first["affiliation"] != "Example University" {
		t.Errorf("first creator = %+v", first)
	}

	second := list[1].(map[string]any)
	if _, present := second["orcid"]; present {
		t.Error("orcid should be omitted when empty")
	}
	if _, present := second["affiliation"]; present {
		t.Error("affiliation should be omitted when empty")
	}
}

func TestFormatCreatorsInvenio(t *testing.T) {
	creators := []deposit.Creator{
		{Name: "Doe, Jane", ORCID: "0000-0002-1825-0097", Affiliation: "Example University"},
		{Name: "Plainname"},
	}

	got := FormatCreators(creators, deposit.ProviderInvenio)

	if rt, ok := got["resource_type"].(map[string]any); !ok || rt["id"] != DefaultResourceType {
		t.Errorf("resource_type = %+v", got["resource_type"])
	}
	if got["publisher"] != DefaultPublisher {
		t.Errorf("publisher = %v", got["publisher"])
	}

	list := got["creators"].([]any)
	if len(list) != 2 {
		t.Fatalf("len(creators) = %d, want 2", len(list))
	}

	first := list[0].(map[string]any)
	person := first["person_or_org"].(map[string]any)
	if person["type"] != "personal" || person["family_name"] != "Doe" || person["given_name"] != "Jane" {
		t.Errorf("person_or_org = %+v", person)
	}
	ids := person["identifiers"].([]any)
	id := ids[0].(map[string]any)
	if id["identifier"] != "0000-0002-1825-0097" || id["scheme"] != "orcid" {
		t.Errorf("identifiers = %+v", ids)
	}
	affs := first["affiliations"].([]any)
	if affs[0].(map[string]any)["name"] != "Example University" {
		t.Errorf("affiliations = %+v", affs)
	}

	// Unsplittable name falls back to family_name = full name, no
	// identifiers, no affiliations.
	second := list[1].(map[string]any)
	person = second["person_or_org"].(map[string]any)
	if person["family_name"] != "Plainname" {
		t.Errorf("family_name = %v", person["family_name"])
	}
	if _, present := person["given_name"]; present {
		t.Error("given_name should be omitted when name has no comma")
	}
	if _, present := person["identifiers"]; present {
		t.Error("identifiers should be omitted without an ORCID")
	}
	if _, present := second["affiliations"]; present {
		t.Error("affiliations should be omitted when empty")
	}
}

func TestBuildPayload(t *testing.T) {
	creators := []deposit.Creator{{Name: "Doe, Jane"}}
	md := map[string]any{
		"title":     "A thread",
		"doi":       "10.5072/zenodo.1",
		"publisher": "Custom House",
	}

	body := BuildPayload(creators, md, deposit.ProviderInvenio)
	inner, ok := body["metadata"].(map[string]any)
	if !ok {
		t.Fatalf("metadata = %T", body["metadata"])
	}
	if inner["title"] != "A thread" {
		t.Errorf("title = %v", inner["title"])
	}
	if _, present := inner["doi"]; present {
		t.Error("doi should be cleaned out of the payload")
	}
	// Caller-supplied publisher survives the injected default.
	if inner["publisher"] != "Custom House" {
		t.Errorf("publisher = %v, want caller value", inner["publisher"])
	}
	if _, ok := inner["creators"].([]any); !ok {
		t.Errorf("creators fragment missing: %+v", inner)
	}
}

func TestBuildPayloadOmitsEmptyCreators(t *testing.T) {
	md := map[string]any{"title": "A thread"}

	for _, provider := range []deposit.Provider{deposit.ProviderZenodo, deposit.ProviderInvenio} {
		t.Run(string(provider), func(t *testing.T) {
			body := BuildPayload(nil, md, provider)
			inner := body["metadata"].(map[string]any)
			if _, present := inner["creators"]; present {
				t.Errorf("creators = %v; empty list would erase the record's authors", inner["creators"])
			}
		})
	}

	// A list with only hidden entries counts as empty too.
	hidden := []deposit.Creator{{Name: "Doe, Jane", Hidden: true}}
	body := BuildPayload(hidden, md, deposit.ProviderZenodo)
	inner := body["metadata"].(map[string]any)
	if _, present := inner["creators"]; present {
		t.Errorf("creators = %v, want omitted for hidden-only list", inner["creators"])
	}
}
