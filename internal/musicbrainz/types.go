// Package musicbrainz provides a client for the MusicBrainz API.
package musicbrainz

import "strings"

// Artist represents a MusicBrainz artist.
type Artist struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	SortName       string    `json:"sort_name,omitempty"`
	Type           string    `json:"type,omitempty"` // Person, Group, etc.
	Country        string    `json:"country,omitempty"`
	Score          int       `json:"score,omitempty"` // Search relevance score (0-100)
	Disambiguation string    `json:"disambiguation,omitempty"`
	BeginYear      string    `json:"begin_year,omitempty"` // Extracted from life-span
	EndYear        string    `json:"end_year,omitempty"`   // Extracted from life-span
	Tags           []string  `json:"tags,omitempty"`
	Relations      Relations `json:"relations,omitempty"`
}

// Relation is a URL relationship of an artist, such as its official
// homepage or a Bandcamp page.
type Relation struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Relations is an artist's URL relationships.
type Relations []Relation

// linkTypes are the relation types worth showing as outbound links.
var linkTypes = map[string]bool{
	"official homepage":     true,
	"bandcamp":              true,
	"soundcloud":            true,
	"social network":        true,
	"streaming":             true,
	"free streaming":        true,
	"purchase for download": true,
	"youtube":               true,
	"wikipedia":             true,
	"discogs":               true,
}

// ImageURL returns the first image relation, or "".
func (rs Relations) ImageURL() string {
	for _, r := range rs {
		if r.Type == "image" && r.URL != "" {
			return r.URL
		}
	}
	return ""
}

// Links returns the relations worth showing as outbound links, in order.
func (rs Relations) Links() []Relation {
	var out []Relation
	for _, r := range rs {
		if r.URL != "" && linkTypes[strings.ToLower(r.Type)] {
			out = append(out, r)
		}
	}
	return out
}

// artistSearchResponse is the raw response from MusicBrainz artist search.
type artistSearchResponse struct {
	Artists []artistResult `json:"artists"`
}

// artistResult is a single artist from search or lookup results.
type artistResult struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SortName       string `json:"sort-name"`
	Type           string `json:"type"`
	Country        string `json:"country"`
	Score          int    `json:"score"`
	Disambiguation string `json:"disambiguation"`
	LifeSpan       *struct {
		Begin string `json:"begin"`
		End   string `json:"end"`
	} `json:"life-span"`
	Tags []struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	} `json:"tags"`
	Relations []relationResult `json:"relations"`
}

// relationResult is a single entry of an artist's relations.
type relationResult struct {
	Type       string `json:"type"`
	TargetType string `json:"target-type"`
	URL        *struct {
		Resource string `json:"resource"`
	} `json:"url"`
}
