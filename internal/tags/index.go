// Package tags builds the tag index consumed by the tag-listing template:
// every tag with its posts in reverse chronological order, tags ordered
// alphabetically, and an anchor id suitable for fragment links.
package tags

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/inkpress/go-blog/internal/posts"
)

// Entry is a single post reference inside a tag group. DateTime carries the
// ISO 8601 form used for the <time datetime> attribute.
type Entry struct {
	Slug     string
	URL      string
	Title    string
	Date     time.Time
	DateTime string
}

// Group pairs a tag with its ordered posts.
type Group struct {
	Name     string
	AnchorID string
	Posts    []Entry
}

// Index is the full tag listing.
type Index struct {
	Groups []Group
}

// Lookup returns the group for the given tag name, if present.
func (i Index) Lookup(name string) (Group, bool) {
	for _, group := range i.Groups {
		if group.Name == name {
			return group, true
		}
	}
	return Group{}, false
}

// TagNames returns the ordered tag names.
func (i Index) TagNames() []string {
	names := make([]string, 0, len(i.Groups))
	for _, group := range i.Groups {
		names = append(names, group.Name)
	}
	return names
}

// AnchorID derives the fragment identifier for a tag heading: the lowercase,
// URI-escaped form of the tag name.
func AnchorID(name string) string {
	return url.PathEscape(strings.ToLower(strings.TrimSpace(name)))
}

// BuildIndex groups the supplied posts by tag. Tags are ordered
// alphabetically (case-insensitively, with the raw name as tiebreak) and each
// tag's posts by date descending, ties broken on title then slug. Draft
// posts never appear.
func BuildIndex(records []*posts.Post) Index {
	grouped := map[string][]Entry{}

	for _, record := range records {
		if record == nil || record.Draft {
			continue
		}
		entry := Entry{
			Slug:     record.Slug,
			URL:      record.URL(),
			Title:    record.Title,
			Date:     record.Date(),
			DateTime: record.Date().UTC().Format(time.RFC3339),
		}
		seen := map[string]struct{}{}
		for _, tag := range record.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			// A post listing the same tag twice contributes one entry.
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			grouped[tag] = append(grouped[tag], entry)
		}
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		left, right := strings.ToLower(names[i]), strings.ToLower(names[j])
		if left != right {
			return left < right
		}
		return names[i] < names[j]
	})

	groups := make([]Group, 0, len(names))
	for _, name := range names {
		entries := grouped[name]
		sort.Slice(entries, func(i, j int) bool {
			if !entries[i].Date.Equal(entries[j].Date) {
				return entries[i].Date.After(entries[j].Date)
			}
			if entries[i].Title != entries[j].Title {
				return entries[i].Title < entries[j].Title
			}
			return entries[i].Slug < entries[j].Slug
		})
		groups = append(groups, Group{
			Name:     name,
			AnchorID: AnchorID(name),
			Posts:    entries,
		})
	}

	return Index{Groups: groups}
}
