package leadbook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// URLList is an ordered list of URLs. Older records store a single string
// where newer ones store an array; both decode to a URLList.
type URLList []string

// UnmarshalJSON implements json.Unmarshaler using NormalizeURLs.
func (l *URLList) UnmarshalJSON(data []byte) error {
	urls, err := NormalizeURLs(data)
	if err != nil {
		return err
	}
	*l = urls
	return nil
}

// First returns the first URL or an empty string.
func (l URLList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}

// NormalizeURLs converts a raw JSON value holding either a single string or
// an array of strings into a URLList. Null, empty input and blank entries
// yield no URLs. Order is preserved.
func NormalizeURLs(raw json.RawMessage) (URLList, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var values []string
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode url: %w", err)
		}
		values = []string{s}
	case '[':
		var items []*string
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode url list: %w", err)
		}
		for _, item := range items {
			if item != nil {
				values = append(values, *item)
			}
		}
	default:
		return nil, Errorf(EINVALID, "url list must be a string or an array of strings")
	}

	var urls URLList
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			urls = append(urls, v)
		}
	}
	return urls, nil
}
