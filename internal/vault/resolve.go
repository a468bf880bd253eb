package vault

import (
	"path"
	"slices"
	"strings"
	"time"
)

// cleanLink drops heading and block suffixes, surrounding space and a leading
// slash from a link target.
func cleanLink(text string) string {
	text, _, _ = strings.Cut(text, "#")
	text, _, _ = strings.Cut(text, "^")
	text = strings.TrimSpace(text)
	return strings.TrimPrefix(text, "/")
}

func (s *snapshot) lookup(p string) (Resource, bool) {
	if p == "" || p == "." || strings.HasPrefix(p, "../") {
		return Resource{}, false
	}
	if real, ok := s.lower[strings.ToLower(p)]; ok {
		return s.files[real], true
	}
	return Resource{}, false
}

// resolve maps a link to a vault file. The path relative to the linking note
// is tried first, then the vault path, each with and without ".md", and
// finally a match on the file name anywhere in the vault.
func (s *snapshot) resolve(text, contextPath string) (Resource, bool) {
	link := cleanLink(text)
	if link == "" {
		return Resource{}, false
	}

	contextFolder := RootFolder
	if contextPath != "" {
		contextFolder = NewResource(contextPath, 0, time.Time{}).Folder()
	}

	candidates := make([]string, 0, 2)
	if contextFolder != RootFolder {
		candidates = append(candidates, path.Join(contextFolder, link))
	}
	candidates = append(candidates, path.Clean(link))
	for _, c := range candidates {
		if r, ok := s.lookup(c); ok {
			return r, true
		}
		if r, ok := s.lookup(c + "." + NoteExt); ok {
			return r, true
		}
	}

	return s.resolveByName(link, contextFolder)
}

func (s *snapshot) resolveByName(link, contextFolder string) (Resource, bool) {
	lowerLink := strings.ToLower(path.Clean(link))
	name := path.Base(lowerLink)

	matches := slices.Concat(s.byName[name], s.byName[name+"."+NoteExt])
	if strings.Contains(lowerLink, "/") {
		matches = slices.DeleteFunc(slices.Clone(matches), func(p string) bool {
			lp := strings.ToLower(p)
			return !strings.HasSuffix(lp, "/"+lowerLink) && !strings.HasSuffix(lp, "/"+lowerLink+"."+NoteExt)
		})
	}
	if len(matches) == 0 {
		return Resource{}, false
	}

	best := slices.MinFunc(matches, func(a, b string) int {
		ra, rb := s.files[a], s.files[b]
		if (ra.Folder() == contextFolder) != (rb.Folder() == contextFolder) {
			if ra.Folder() == contextFolder {
				return -1
			}
			return 1
		}
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return strings.Compare(a, b)
	})
	return s.files[best], true
}
