package lastfm

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Last.fm's JSON is a mechanical translation of its XML output: attributes
// live under "@attr", text content under "#text", numbers are strings, and
// a list with one element is serialized as a bare object. The raw types
// below absorb those quirks; services convert them into the exported types.

// count decodes a number that may arrive as a JSON string or number.
// Anything unparsable decodes to zero.
type count int

func (c *count) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		*c = 0
		return nil
	}
	*c = count(n)
	return nil
}

// float decodes a float that may arrive as a JSON string or number.
type float float64

func (f *float) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = float(v)
	return nil
}

// flag decodes "0"/"1"/"true"/"false" strings or JSON booleans.
type flag bool

func (b *flag) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	*b = flag(s == "1" || strings.EqualFold(s, "true"))
	return nil
}

// list decodes either a JSON array or a single object as a slice.
type list[T any] []T

func (l *list[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || data[0] == '"' {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	*l = []T{item}
	return nil
}

// textNode is an element that carries its value in "#text".
type textNode struct {
	Text string `json:"#text"`
	MBID string `json:"mbid"`
	Name string `json:"name"`
}

// value returns the text content, falling back to the nested name field.
func (n textNode) value() string {
	if strings.TrimSpace(n.Text) != "" {
		return n.Text
	}
	return n.Name
}

// UnmarshalJSON accepts both the object form and a bare string.
func (n *textNode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &n.Text)
	}
	type plain textNode
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = textNode(p)
	return nil
}

type rawImage struct {
	Text string `json:"#text"`
	Size string `json:"size"`
}

type rawTag struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type rawTags struct {
	Tag list[rawTag] `json:"tag"`
}

// UnmarshalJSON tolerates the empty string Last.fm sends for no tags.
func (t *rawTags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		*t = rawTags{}
		return nil
	}
	type plain rawTags
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = rawTags(p)
	return nil
}

type rawRankAttr struct {
	Rank count `json:"rank"`
}

func convertImages(raw []rawImage) []Image {
	if len(raw) == 0 {
		return nil
	}
	images := make([]Image, 0, len(raw))
	for _, img := range raw {
		images = append(images, Image{Size: img.Size, URL: img.Text})
	}
	return images
}

func convertTags(raw rawTags) []Tag {
	if len(raw.Tag) == 0 {
		return nil
	}
	tags := make([]Tag, 0, len(raw.Tag))
	for _, t := range raw.Tag {
		if t.Name == "" {
			continue
		}
		tags = append(tags, Tag(t))
	}
	return tags
}

// parseUTS converts a Unix timestamp string into a UTC time.
func parseUTS(uts string) *time.Time {
	if uts == "" {
		return nil
	}
	secs, err := strconv.ParseInt(uts, 10, 64)
	if err != nil {
		return nil
	}
	t := time.Unix(secs, 0).UTC()
	return &t
}
