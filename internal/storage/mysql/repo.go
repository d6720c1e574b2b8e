package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/AlexSkos/drinkmap/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

var _ domain.FountainRepository = (*Repo)(nil)

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Migrate creates the schema if it does not exist yet.
func (r *Repo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, SchemaSQL)
	return err
}

// UpsertFountains writes the whole batch in one multi-row statement.
// Existing rows are refreshed in place; ratings live in their own store
// and are never touched here.
func (r *Repo) UpsertFountains(ctx context.Context, fs []domain.Fountain) error {
	if len(fs) == 0 {
		return nil
	}
	values := make([]string, 0, len(fs))
	args := make([]any, 0, len(fs)*7)
	for _, f := range fs {
		values = append(values, "(?,?,?,?,?,?,?)")
		args = append(args,
			f.ID,
			f.Lat,
			f.Lng,
			f.Title,
			valStr(f.Note),
			valStr(f.PhotoURL),
			valStr(f.PhotoKey),
		)
	}
	sqlStr := insertFountainsPrefix + strings.Join(values, ",") + insertFountainsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) ListFountains(ctx context.Context) ([]domain.Fountain, error) {
	rows, err := r.db.QueryContext(ctx, listFountainsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Fountain
	for rows.Next() {
		var f domain.Fountain
		var note, photoURL, photoKey sql.NullString
		if err := rows.Scan(&f.ID, &f.Lat, &f.Lng, &f.Title, &note, &photoURL, &photoKey); err != nil {
			return nil, err
		}
		f.Note = note.String
		f.PhotoURL = photoURL.String
		f.PhotoKey = photoKey.String
		out = append(out, f)
	}
	return out, rows.Err()
}
