package domain

import (
	"reflect"
	"testing"
)

func strptr(s string) *string { return &s }

func TestDestinationTable_URLsForEvent(t *testing.T) {
	table := DestinationTable{
		"1": {URL: "http://a.example.com", Events: []string{"challenge_created", "firstblood"}},
		"2": {URL: "http://b.example.com", Events: []string{"team_created"}},
		"3": {URL: "http://c.example.com", Events: []string{"firstblood"}},
		"4": {URL: "http://d.example.com", Events: []string{}},
	}

	got := table.URLsForEvent("firstblood")
	want := []string{"http://a.example.com", "http://c.example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("URLsForEvent(firstblood) = %v, want %v", got, want)
	}

	if got := table.URLsForEvent("scoreboard_update"); len(got) != 0 {
		t.Errorf("expected no URLs for unsubscribed event, got %v", got)
	}
}

func TestDestinationTable_URLsForEvent_IDOrder(t *testing.T) {
	table := DestinationTable{
		"10": {URL: "http://ten.example.com", Events: []string{"team_created"}},
		"2":  {URL: "http://two.example.com", Events: []string{"team_created"}},
	}

	// Numeric id order, not lexicographic: 2 before 10
	got := table.URLsForEvent("team_created")
	want := []string{"http://two.example.com", "http://ten.example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("URLsForEvent = %v, want %v", got, want)
	}
}

func TestDestinationTable_SecretForURL(t *testing.T) {
	table := DestinationTable{
		"1": {URL: "http://a.example.com", Secret: strptr("secret-a")},
		"2": {URL: "http://b.example.com", Secret: nil},
	}

	secret, ok := table.SecretForURL("http://a.example.com")
	if !ok || secret != "secret-a" {
		t.Errorf("SecretForURL = %q, %v; want secret-a, true", secret, ok)
	}

	if _, ok := table.SecretForURL("http://b.example.com"); ok {
		t.Error("destination without a secret should report ok=false")
	}

	if _, ok := table.SecretForURL("http://missing.example.com"); ok {
		t.Error("unknown URL should report ok=false")
	}
}

func TestDestinationTable_SecretForURL_FirstMatchWins(t *testing.T) {
	table := DestinationTable{
		"1": {URL: "http://dup.example.com", Secret: strptr("first")},
		"2": {URL: "http://dup.example.com", Secret: strptr("second")},
	}

	secret, ok := table.SecretForURL("http://dup.example.com")
	if !ok || secret != "first" {
		t.Errorf("duplicate URL should resolve to first destination's secret, got %q", secret)
	}

	id, ok := table.IDForURL("http://dup.example.com")
	if !ok || id != "1" {
		t.Errorf("duplicate URL should resolve to first destination's id, got %q", id)
	}

	dups := table.DuplicateURLs()
	if len(dups) != 1 || dups[0] != "http://dup.example.com" {
		t.Errorf("DuplicateURLs = %v, want the duplicated URL", dups)
	}
}

func TestDestinationTable_NextID(t *testing.T) {
	tests := []struct {
		name  string
		table DestinationTable
		want  string
	}{
		{"empty table", DestinationTable{}, "1"},
		{"single id", DestinationTable{"1": {URL: "http://a"}}, "2"},
		{"gap after deletion", DestinationTable{"1": {URL: "http://a"}, "5": {URL: "http://b"}}, "6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table.NextID(); got != tt.want {
				t.Errorf("NextID() = %q, want %q", got, tt.want)
			}
		})
	}
}
