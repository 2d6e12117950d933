package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
	"github.com/mattsolo1/grove-blockbook/pkg/store"
)

const (
	matchOpen  = "<match>"
	matchClose = "</match>"
)

// Index is a full-text index over the blocks of every file.
type Index struct {
	db     *sql.DB
	useFTS bool
}

// Hit is one block matching a query.
type Hit struct {
	FileID   int         `json:"fileId"`
	FileName string      `json:"fileName"`
	BlockID  int         `json:"blockId"`
	Kind     blocks.Kind `json:"type"`
	Snippet  string      `json:"snippet"`
}

// NewIndex creates a new search index. dbPath may be ":memory:".
func NewIndex(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// An in-memory database lives and dies with its connection.
	db.SetMaxOpenConns(1)

	idx := &Index{db: db}
	if err := idx.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return idx, nil
}

// init creates the database schema
func (idx *Index) init() error {
	idx.useFTS = idx.checkFTS5Support()

	metaSchema := `
	CREATE TABLE IF NOT EXISTS blocks_meta (
		file_id INTEGER NOT NULL,
		block_id INTEGER NOT NULL,
		file_name TEXT,
		kind TEXT,
		ordering_key INTEGER,
		content TEXT,
		PRIMARY KEY (file_id, block_id)
	);

	CREATE INDEX IF NOT EXISTS idx_blocks_meta_kind ON blocks_meta(kind);
	`
	if _, err := idx.db.Exec(metaSchema); err != nil {
		return err
	}

	if idx.useFTS {
		ftsSchema := `
		CREATE VIRTUAL TABLE IF NOT EXISTS blocks_fts USING fts5(
			file_id UNINDEXED,
			block_id UNINDEXED,
			file_name,
			content,
			tokenize = 'porter unicode61'
		);
		`
		if _, err := idx.db.Exec(ftsSchema); err != nil {
			// If FTS creation fails, disable FTS and continue
			idx.useFTS = false
		}
	}

	return nil
}

// checkFTS5Support checks if FTS5 module is available. go-sqlite3 only
// ships it when built with the sqlite_fts5 tag.
func (idx *Index) checkFTS5Support() bool {
	_, err := idx.db.Exec("CREATE VIRTUAL TABLE IF NOT EXISTS fts5_test USING fts5(content)")
	if err != nil {
		return false
	}
	_, _ = idx.db.Exec("DROP TABLE IF EXISTS fts5_test")
	return true
}

// FTS reports whether the index uses SQLite full-text search.
func (idx *Index) FTS() bool { return idx.useFTS }

// IndexState replaces the index contents with every block of s.
func (idx *Index) IndexState(s *store.State) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if idx.useFTS {
		if _, err := tx.Exec("DELETE FROM blocks_fts"); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("DELETE FROM blocks_meta"); err != nil {
		return err
	}

	for _, info := range s.Files() {
		f, _ := s.File(info.ID)
		for _, b := range f.Blocks.Ordered() {
			if err := insertBlock(tx, idx.useFTS, f, b); err != nil {
				return fmt.Errorf("index block %d of file %d: %w", b.ID, f.ID, err)
			}
		}
	}

	return tx.Commit()
}

// IndexFile reindexes a single file.
func (idx *Index) IndexFile(f store.File) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := deleteFile(tx, idx.useFTS, f.ID); err != nil {
		return err
	}
	for _, b := range f.Blocks.Ordered() {
		if err := insertBlock(tx, idx.useFTS, f, b); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RemoveFile removes a file's blocks from the index
func (idx *Index) RemoveFile(fileID int) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := deleteFile(tx, idx.useFTS, fileID); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteFile(tx *sql.Tx, useFTS bool, fileID int) error {
	if useFTS {
		if _, err := tx.Exec("DELETE FROM blocks_fts WHERE file_id = ?", fileID); err != nil {
			return err
		}
	}
	_, err := tx.Exec("DELETE FROM blocks_meta WHERE file_id = ?", fileID)
	return err
}

func insertBlock(tx *sql.Tx, useFTS bool, f store.File, b blocks.Block) error {
	if useFTS {
		_, err := tx.Exec(`
			INSERT INTO blocks_fts (file_id, block_id, file_name, content)
			VALUES (?, ?, ?, ?)
		`, f.ID, b.ID, f.Name, b.Content)
		if err != nil {
			return err
		}
	}

	_, err := tx.Exec(`
		INSERT INTO blocks_meta (file_id, block_id, file_name, kind, ordering_key, content)
		VALUES (?, ?, ?, ?, ?, ?)
	`, f.ID, b.ID, f.Name, b.Kind.String(), b.OrderingKey, b.Content)
	return err
}

// Options for searching
type Options struct {
	FileID *int
	Kind   blocks.Kind // zero matches every kind
	Limit  int
}

// Search performs a full-text search over block contents.
func (idx *Index) Search(query string, opts *Options) ([]Hit, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Limit == 0 {
		opts.Limit = 50
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if idx.useFTS {
		return idx.searchWithFTS(query, opts)
	}
	return idx.searchWithoutFTS(query, opts)
}

func filters(opts *Options, prefix string) ([]string, []any) {
	var conditions []string
	var args []any
	if opts.FileID != nil {
		conditions = append(conditions, prefix+"file_id = ?")
		args = append(args, *opts.FileID)
	}
	if opts.Kind != 0 {
		conditions = append(conditions, prefix+"kind = ?")
		args = append(args, opts.Kind.String())
	}
	return conditions, args
}

// searchWithFTS performs search using FTS5
func (idx *Index) searchWithFTS(query string, opts *Options) ([]Hit, error) {
	conditions, args := filters(opts, "m.")
	conditions = append(conditions, "blocks_fts MATCH ?")
	args = append(args, ftsQuery(query), opts.Limit)

	searchQuery := fmt.Sprintf(`
		SELECT
			m.file_id, m.file_name, m.block_id, m.kind,
			snippet(blocks_fts, 3, '%s', '%s', '...', 16) as snippet
		FROM blocks_fts f
		JOIN blocks_meta m ON f.file_id = m.file_id AND f.block_id = m.block_id
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, matchOpen, matchClose, strings.Join(conditions, " AND "))

	return idx.query(searchQuery, args, nil)
}

// searchWithoutFTS performs search using LIKE queries on the metadata table
func (idx *Index) searchWithoutFTS(query string, opts *Options) ([]Hit, error) {
	conditions, args := filters(opts, "")
	searchPattern := "%" + strings.ReplaceAll(query, " ", "%") + "%"
	conditions = append(conditions, "(content LIKE ? OR file_name LIKE ?)")
	args = append(args, searchPattern, searchPattern, opts.Limit)

	searchQuery := fmt.Sprintf(`
		SELECT file_id, file_name, block_id, kind, content
		FROM blocks_meta
		WHERE %s
		ORDER BY file_id, ordering_key, block_id
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	return idx.query(searchQuery, args, func(content string) string {
		return snippet(content, query)
	})
}

func (idx *Index) query(q string, args []any, snip func(string) string) ([]Hit, error) {
	rows, err := idx.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Hit
	for rows.Next() {
		var (
			hit  Hit
			kind string
			text string
		)
		if err := rows.Scan(&hit.FileID, &hit.FileName, &hit.BlockID, &kind, &text); err != nil {
			return nil, err
		}
		if hit.Kind, err = blocks.ParseKind(kind); err != nil {
			return nil, err
		}
		hit.Snippet = text
		if snip != nil {
			hit.Snippet = snip(text)
		}
		results = append(results, hit)
	}
	return results, rows.Err()
}

// ftsQuery quotes every term so user input never reaches the FTS5 query
// syntax.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, term := range terms {
		terms[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// snippet marks the first occurrence of the query's first term and trims the
// surrounding text to a short window.
func snippet(content, query string) string {
	const window = 40

	term := strings.Fields(query)[0]
	lower := strings.ToLower(content)
	at := strings.Index(lower, strings.ToLower(term))
	if at < 0 || len(lower) != len(content) {
		return truncate(content, 2*window)
	}

	start, end := at-window, at+len(term)+window
	prefix, suffix := "...", "..."
	if start <= 0 {
		start, prefix = 0, ""
	}
	if end >= len(content) {
		end, suffix = len(content), ""
	}
	for start > 0 && !utf8.RuneStart(content[start]) {
		start--
	}
	for end < len(content) && !utf8.RuneStart(content[end]) {
		end++
	}
	return prefix + content[start:at] + matchOpen + content[at:at+len(term)] + matchClose + content[at+len(term):end] + suffix
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// Close closes the index
func (idx *Index) Close() error {
	return idx.db.Close()
}
