// Package lexdb stores a pronunciation lexicon in SQLite so that large
// dictionaries are queried on demand instead of held in memory.
package lexdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/cours-de-latin/metermeter"
)

const schema = `
CREATE TABLE IF NOT EXISTS words (
	word    TEXT    NOT NULL,
	rank    INTEGER NOT NULL,
	pattern TEXT    NOT NULL,
	PRIMARY KEY (word, rank)
);
`

// insertBatch bounds the rows of one multi-row INSERT; SQLite caps bound
// parameters per statement.
const insertBatch = 300

// DB is a SQLite-backed lexicon. It implements metermeter.Pronouncer and is
// safe for concurrent use.
type DB struct {
	db  *sql.DB
	sb  sq.StatementBuilderType
	log zerolog.Logger
}

// Open opens (creating if needed) the lexicon database at path.
func Open(ctx context.Context, path string, log zerolog.Logger) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create lexicon db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init lexicon db: %w", err)
	}
	return &DB{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Question).RunWith(db),
		log: log.With().Str("component", "lexdb").Logger(),
	}, nil
}

func (d *DB) Close() error { return d.db.Close() }

// Import writes every entry of lex, replacing existing rows for its words.
// It returns the number of words written.
func (d *DB) Import(ctx context.Context, lex *metermeter.Lexicon) (int, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	sb := sq.StatementBuilder.PlaceholderFormat(sq.Question).RunWith(tx)
	words := 0
	var pending [][3]any
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		ins := sb.Insert("words").Options("OR REPLACE").Columns("word", "rank", "pattern")
		for _, row := range pending {
			ins = ins.Values(row[0], row[1], row[2])
		}
		pending = pending[:0]
		_, err := ins.ExecContext(ctx)
		return err
	}

	var werr error
	lex.Each(func(word string, patterns []string) {
		if werr != nil {
			return
		}
		// Drop stale alternatives beyond the new count.
		if _, err := sb.Delete("words").
			Where(sq.And{sq.Eq{"word": word}, sq.GtOrEq{"rank": len(patterns)}}).
			ExecContext(ctx); err != nil {
			werr = err
			return
		}
		for rank, p := range patterns {
			pending = append(pending, [3]any{word, rank, p})
		}
		words++
		if len(pending) >= insertBatch {
			werr = flush()
		}
	})
	if werr == nil {
		werr = flush()
	}
	if werr != nil {
		return 0, fmt.Errorf("import lexicon: %w", werr)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	d.log.Info().Int("words", words).Msg("lexicon imported")
	return words, nil
}

// Count returns the number of distinct words stored.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := d.sb.Select("COUNT(DISTINCT word)").From("words").QueryRowContext(ctx).Scan(&n)
	return n, err
}

// Patterns returns the stored stress patterns of word, preferred first.
// A possessive falls back to its base word.
func (d *DB) Patterns(ctx context.Context, word string) ([]string, error) {
	for _, key := range metermeter.LookupKeys(word) {
		rows, err := d.sb.Select("pattern").
			From("words").
			Where(sq.Eq{"word": key}).
			OrderBy("rank").
			QueryContext(ctx)
		if err != nil {
			return nil, err
		}
		var out []string
		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				rows.Close()
				return nil, err
			}
			out = append(out, p)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	return nil, nil
}

// PronounceContext looks word up and falls back to the spelling heuristics
// when it is missing.
func (d *DB) PronounceContext(ctx context.Context, word string) (metermeter.Pronunciation, error) {
	patterns, err := d.Patterns(ctx, word)
	if err != nil {
		return metermeter.Pronunciation{}, err
	}
	return metermeter.PronounceFromPatterns(word, patterns), nil
}

// Pronounce implements metermeter.Pronouncer. A query error is logged and
// treated as a miss.
func (d *DB) Pronounce(word string) metermeter.Pronunciation {
	pr, err := d.PronounceContext(context.Background(), word)
	if err != nil {
		d.log.Warn().Err(err).Str("word", word).Msg("lexicon lookup failed")
		return metermeter.PronounceFromPatterns(word, nil)
	}
	return pr
}
