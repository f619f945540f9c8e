package domain

import "strings"

// ParseTags turns a raw comma-separated tag string into an ordered list of
// lowercase, trimmed tags. Empty segments are dropped. Repeated tags are kept
// in first-seen order; consumers that need a set derive one themselves.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}

	segments := strings.Split(raw, ",")
	tags := make([]string, 0, len(segments))
	for _, segment := range segments {
		tag := strings.ToLower(strings.TrimSpace(segment))
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}
