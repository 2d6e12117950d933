package frontmatter

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	one := 1
	tests := []struct {
		name     string
		content  string
		wantFM   *Frontmatter
		wantBody string
		wantErr  bool
	}{
		{
			name: "valid frontmatter",
			content: `---
id: 20240101-100000-notes
title: Notes
aliases: []
tags: [blockbook, example]
created: 2024-01-01 10:00:00
modified: 2024-01-02 11:00:00
source: WebPPLEditorState
file_id: 1
blocks: 3
---

Some prose.`,
			wantFM: &Frontmatter{
				ID:       "20240101-100000-notes",
				Title:    "Notes",
				Aliases:  []string{},
				Tags:     []string{"blockbook", "example"},
				Created:  "2024-01-01 10:00:00",
				Modified: "2024-01-02 11:00:00",
				Source:   "WebPPLEditorState",
				FileID:   &one,
				Blocks:   3,
			},
			wantBody: "\nSome prose.",
		},
		{
			name:     "no frontmatter",
			content:  "# Just a title\n\nSome content.",
			wantFM:   nil,
			wantBody: "# Just a title\n\nSome content.",
		},
		{
			name:     "windows line endings",
			content:  "---\r\nid: x\r\ntitle: T\r\n---\r\nbody",
			wantFM:   &Frontmatter{ID: "x", Title: "T", Aliases: []string{}, Tags: []string{}},
			wantBody: "body",
		},
		{
			name: "invalid yaml",
			content: `---
id: test
title: [invalid
---

Body`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := Parse(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(fm, tt.wantFM) {
				t.Errorf("Parse() fm = %+v, want %+v", fm, tt.wantFM)
			}
			if body != tt.wantBody {
				t.Errorf("Parse() body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	zero := 0
	tests := []struct {
		name string
		fm   *Frontmatter
		want string
	}{
		{
			name: "minimal",
			fm: &Frontmatter{
				ID:       "20240101-100000-default",
				Title:    "Default",
				Created:  "2024-01-01 10:00:00",
				Modified: "2024-01-01 10:00:00",
			},
			want: `---
id: 20240101-100000-default
title: Default
aliases: []
tags: []
created: 2024-01-01 10:00:00
modified: 2024-01-01 10:00:00
---`,
		},
		{
			name: "editor fields and quoting",
			fm: &Frontmatter{
				ID:       "id",
				Title:    "Notes: draft",
				Tags:     []string{"a", "b,c"},
				Created:  "c",
				Modified: "m",
				Source:   "WebPPLEditorState",
				FileID:   &zero,
				Blocks:   2,
			},
			want: `---
id: id
title: "Notes: draft"
aliases: []
tags: [a, "b,c"]
created: c
modified: m
source: WebPPLEditorState
file_id: 0
blocks: 2
---`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Build(tt.fm); got != tt.want {
				t.Errorf("Build() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestBuildContent(t *testing.T) {
	fm := &Frontmatter{ID: "x", Title: "T", Created: "c", Modified: "m"}

	got := BuildContent(fm, "body")
	if !strings.HasSuffix(got, "---\n\nbody") {
		t.Errorf("BuildContent() = %q, want blank line before body", got)
	}

	got = BuildContent(fm, "\nbody")
	if !strings.HasSuffix(got, "---\n\nbody") {
		t.Errorf("BuildContent() = %q, want single blank line before body", got)
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 15, 14, 30, 45, 0, time.UTC)
	formatted := FormatTimestamp(ts)
	if formatted != "2024-03-15 14:30:45" {
		t.Errorf("FormatTimestamp() = %q", formatted)
	}
}

func TestMergeTags(t *testing.T) {
	got := MergeTags([]string{"a", "b"}, []string{"b", "", "c"}, nil)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeTags() = %v, want %v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	id := 4
	original := &Frontmatter{
		ID:       "20240101-100000-notes",
		Title:    "Notes: draft",
		Aliases:  []string{"n"},
		Tags:     []string{"x"},
		Created:  "2024-01-01 10:00:00",
		Modified: "2024-01-01 10:00:00",
		Source:   "key",
		FileID:   &id,
		Blocks:   5,
	}

	fm, body, err := Parse(BuildContent(original, "body"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !reflect.DeepEqual(fm, original) {
		t.Errorf("round trip = %+v, want %+v", fm, original)
	}
	if body != "\nbody" {
		t.Errorf("round trip body = %q", body)
	}
}
