package frontmatter

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var frontmatterRegex = regexp.MustCompile(`^---\s*\r?\n([\s\S]*?)\r?\n---\s*\r?\n([\s\S]*)$`)

// Properties is the YAML header of a note, keyed by property name.
type Properties map[string]any

// ParseFrontmatter splits a note into its properties and markdown body. A note
// without a header yields nil properties and the whole content as body.
func ParseFrontmatter(content []byte) (properties Properties, markdown []byte, err error) {
	matches := frontmatterRegex.FindSubmatch(content)

	if len(matches) != 3 {
		return nil, content, nil
	}

	yamlContent := matches[1]
	markdownContent := matches[2]

	properties = Properties{}
	if err := yaml.Unmarshal(yamlContent, &properties); err != nil {
		return nil, content, fmt.Errorf("failed to parse YAML frontmatter: %w", err)
	}

	return properties, markdownContent, nil
}

// Keys returns the property names in lexical order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Tags returns the note tags without a leading '#'. Both a YAML list and a
// comma separated string are accepted.
func (p Properties) Tags() []string {
	var raw []string
	switch v := p["tags"].(type) {
	case string:
		raw = strings.Split(v, ",")
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	}

	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (p Properties) HasTag(tag string) bool {
	tag = strings.TrimPrefix(tag, "#")
	return slices.ContainsFunc(p.Tags(), func(t string) bool {
		return strings.EqualFold(t, tag)
	})
}
