package persistence

// Schema names the layout a payload was decoded from.
type Schema string

const (
	// SchemaCurrent is the multi-file layout with a "files" map.
	SchemaCurrent Schema = "files"
	// SchemaLegacy is the single-file layout with a root "blocks" map.
	SchemaLegacy Schema = "blocks"
	// SchemaDefault means nothing was stored and the built-in state was used.
	SchemaDefault Schema = "default"
)

// Issue types recorded while decoding.
const (
	IssueMalformedFileKey  = "malformed_file_key"
	IssueMalformedBlockKey = "malformed_block_key"
	IssueMalformedFile     = "malformed_file"
	IssueMalformedBlock    = "malformed_block"
	IssueUnknownBlockType  = "unknown_block_type"
	IssueDuplicateOrdering = "duplicate_ordering_key"
	IssueMissingDefault    = "missing_default_file"
	IssueDanglingSelection = "dangling_selection"
	IssueEmptyFileName     = "empty_file_name"
	IssueCorruptPayload    = "corrupt_payload"
)

// Issue describes one repair applied while decoding a payload.
type Issue struct {
	Type        string
	Description string
	Field       string
}

// Report summarises a decode.
type Report struct {
	Schema Schema
	Files  int
	Blocks int
	Issues []Issue
}

// Migrated reports whether the payload used the legacy schema.
func (r *Report) Migrated() bool {
	return r.Schema == SchemaLegacy
}

func (r *Report) add(typ, field, description string) {
	r.Issues = append(r.Issues, Issue{Type: typ, Field: field, Description: description})
}
