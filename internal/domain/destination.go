package domain

import (
	"sort"
	"strconv"
)

// Destination is a configured webhook target: where to POST, which event
// kinds it wants, and an optional per-destination HMAC secret. A nil secret
// means the process-wide default secret is used at delivery time.
type Destination struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret *string  `json:"secret"`
}

// DestinationTable is the full set of configured destinations keyed by
// destination id. Ids are numeric-looking strings allocated monotonically.
// The table is always persisted and replaced as a whole.
type DestinationTable map[string]Destination

// SortedIDs returns the destination ids in ascending numeric order.
// Non-numeric ids (never produced by the allocator, but tolerated) sort last.
func (t DestinationTable) SortedIDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA == nil && errB == nil {
			return a < b
		}
		if errA == nil {
			return true
		}
		if errB == nil {
			return false
		}
		return ids[i] < ids[j]
	})
	return ids
}

// URLsForEvent returns the URLs of every destination subscribed to the
// given event kind, in id order.
func (t DestinationTable) URLsForEvent(kind string) []string {
	var urls []string
	for _, id := range t.SortedIDs() {
		for _, ev := range t[id].Events {
			if ev == kind {
				urls = append(urls, t[id].URL)
				break
			}
		}
	}
	return urls
}

// SecretForURL returns the secret of the first destination (in id order)
// whose URL matches. URLs are not guaranteed unique across destinations;
// first match wins.
func (t DestinationTable) SecretForURL(url string) (string, bool) {
	for _, id := range t.SortedIDs() {
		if t[id].URL == url {
			if t[id].Secret == nil {
				return "", false
			}
			return *t[id].Secret, *t[id].Secret != ""
		}
	}
	return "", false
}

// IDForURL returns the id of the first destination whose URL matches.
func (t DestinationTable) IDForURL(url string) (string, bool) {
	for _, id := range t.SortedIDs() {
		if t[id].URL == url {
			return id, true
		}
	}
	return "", false
}

// NextID returns max(existing numeric ids)+1, or "1" for an empty table.
// The value is advisory: the caller decides final ids during a bulk replace.
func (t DestinationTable) NextID() string {
	max := 0
	for id := range t {
		if n, err := strconv.Atoi(id); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

// DuplicateURLs returns URLs that appear on more than one destination.
// Duplicates are legal but make SecretForURL/IDForURL ambiguous, so callers
// should warn when they see any.
func (t DestinationTable) DuplicateURLs() []string {
	seen := make(map[string]int)
	for _, d := range t {
		seen[d.URL]++
	}
	var dups []string
	for url, n := range seen {
		if n > 1 {
			dups = append(dups, url)
		}
	}
	sort.Strings(dups)
	return dups
}
