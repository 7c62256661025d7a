package apidiff

import (
	"regexp"
	"sort"
	"strings"
)

var pathParam = regexp.MustCompile(`\{[^}]*\}`)

// UntaggedGroup collects endpoints declared without a tag
const UntaggedGroup = "untagged"

// NormalizePath drops parameter names and trailing slashes so that
// /tasks/{task_gid} and /tasks/{id} compare equal
func NormalizePath(p string) string {
	if p != "/" {
		p = strings.TrimRight(p, "/")
	}
	return pathParam.ReplaceAllString(p, "{}")
}

// Diff splits two endpoint sets. Missing and Matched carry the declared
// endpoints, Extra the served ones the document does not know about.
type Diff struct {
	Missing []Endpoint
	Extra   []Endpoint
	Matched []Endpoint
}

// Compare diffs the endpoints of a document with the implemented ones
func Compare(spec, implemented []Endpoint) Diff {
	served := map[string]bool{}
	for _, e := range implemented {
		served[e.Key()] = true
	}
	declared := map[string]bool{}

	var d Diff
	for _, e := range spec {
		if declared[e.Key()] {
			continue
		}
		declared[e.Key()] = true
		if served[e.Key()] {
			d.Matched = append(d.Matched, e)
		} else {
			d.Missing = append(d.Missing, e)
		}
	}

	extra := map[string]bool{}
	for _, e := range implemented {
		if declared[e.Key()] || extra[e.Key()] {
			continue
		}
		extra[e.Key()] = true
		d.Extra = append(d.Extra, e)
	}

	sortEndpoints(d.Missing)
	sortEndpoints(d.Extra)
	sortEndpoints(d.Matched)
	return d
}

// Coverage is the share of declared endpoints that are implemented, in percent
func (d Diff) Coverage() float64 {
	total := len(d.Missing) + len(d.Matched)
	if total == 0 {
		return 100
	}
	return float64(len(d.Matched)) * 100 / float64(total)
}

// MissingByTag groups the missing endpoints by their first tag
func (d Diff) MissingByTag() map[string][]Endpoint {
	out := map[string][]Endpoint{}
	for _, e := range d.Missing {
		tag := e.Tag
		if tag == "" {
			tag = UntaggedGroup
		}
		out[tag] = append(out[tag], e)
	}
	return out
}

// Tags returns the keys of a grouping by tag in order
func Tags[T any](groups map[string][]T) []string {
	tags := make([]string, 0, len(groups))
	for tag := range groups {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
