package frontmatter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var frontmatterPattern = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n?(.*)`)

// Frontmatter is the metadata written at the top of an exported document.
type Frontmatter struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Aliases  []string `yaml:"aliases,flow"`
	Tags     []string `yaml:"tags,flow"`
	Created  string   `yaml:"created"`
	Modified string   `yaml:"modified"`

	// Editor fields
	Source string `yaml:"source,omitempty"` // storage key the file was exported from
	FileID *int   `yaml:"file_id,omitempty"`
	Blocks int    `yaml:"blocks,omitempty"`
}

// Parse extracts frontmatter from content and returns the parsed data and body
func Parse(content string) (*Frontmatter, string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	matches := frontmatterPattern.FindStringSubmatch(content)
	if len(matches) != 3 {
		// No frontmatter found
		return nil, content, nil
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(matches[1]), &fm); err != nil {
		return nil, content, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	// Ensure arrays are never nil
	if fm.Aliases == nil {
		fm.Aliases = []string{}
	}
	if fm.Tags == nil {
		fm.Tags = []string{}
	}

	return &fm, matches[2], nil
}

// Build creates the YAML frontmatter string from a Frontmatter struct
func Build(fm *Frontmatter) string {
	var sb strings.Builder

	sb.WriteString("---\n")

	// Always include these fields in a consistent order
	sb.WriteString(fmt.Sprintf("id: %s\n", fm.ID))
	sb.WriteString(fmt.Sprintf("title: %s\n", formatYAMLScalar(fm.Title)))
	sb.WriteString(fmt.Sprintf("aliases: %s\n", formatYAMLArray(fm.Aliases)))
	sb.WriteString(fmt.Sprintf("tags: %s\n", formatYAMLArray(fm.Tags)))

	// Timestamps
	sb.WriteString(fmt.Sprintf("created: %s\n", fm.Created))
	sb.WriteString(fmt.Sprintf("modified: %s\n", fm.Modified))

	if fm.Source != "" {
		sb.WriteString(fmt.Sprintf("source: %s\n", formatYAMLScalar(fm.Source)))
	}
	if fm.FileID != nil {
		sb.WriteString(fmt.Sprintf("file_id: %d\n", *fm.FileID))
	}
	if fm.Blocks > 0 {
		sb.WriteString(fmt.Sprintf("blocks: %d\n", fm.Blocks))
	}

	sb.WriteString("---")

	return sb.String()
}

// BuildContent combines frontmatter and body content into a complete document
func BuildContent(fm *Frontmatter, bodyContent string) string {
	frontmatterStr := Build(fm)

	// Ensure proper spacing between frontmatter and body
	if !strings.HasPrefix(bodyContent, "\n") {
		return frontmatterStr + "\n\n" + bodyContent
	}
	return frontmatterStr + "\n" + bodyContent
}

// FormatTimestamp formats a time.Time into the standard frontmatter timestamp format
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatYAMLArray formats a string slice as a YAML flow-style array
func formatYAMLArray(items []string) string {
	if len(items) == 0 {
		return "[]"
	}

	quotedItems := make([]string, len(items))
	for i, item := range items {
		quotedItems[i] = formatYAMLScalar(item)
	}

	return fmt.Sprintf("[%s]", strings.Join(quotedItems, ", "))
}

func formatYAMLScalar(s string) string {
	if needsQuoting(s) {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// needsQuoting checks if a string needs to be quoted in YAML
func needsQuoting(s string) bool {
	if s == "" || s != strings.TrimSpace(s) {
		return true
	}
	return strings.ContainsAny(s, ",:[]{}\"'#&*!|>%@`")
}

// MergeTags combines multiple tag sources and removes duplicates
func MergeTags(sources ...[]string) []string {
	seen := make(map[string]bool)
	result := []string{}

	for _, tags := range sources {
		for _, tag := range tags {
			if tag != "" && !seen[tag] {
				seen[tag] = true
				result = append(result, tag)
			}
		}
	}

	return result
}
