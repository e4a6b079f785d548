package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	domainauth "github.com/rahvusarhiiv/vaugate/internal/domain/auth"
	"github.com/rahvusarhiiv/vaugate/internal/data/pgxutil"
	apperrors "github.com/rahvusarhiiv/vaugate/internal/errors"
	"github.com/rahvusarhiiv/vaugate/internal/ports"
)

// reIdentifier restricts attribute names to plain SQL identifiers. Attribute
// names come from deployment configuration, not from the payload, but they
// are still interpolated into SQL and get no benefit of the doubt.
var reIdentifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidateFunc checks a record before persistence for a given scenario.
type ValidateFunc func(scenario string, attrs map[string]any) error

// UserRepo is the Postgres-backed ports.UserStore. It owns the gateway's
// users table and the unique constraint on the VAU id attribute; a
// concurrent find-or-create race resolves to a unique violation here, not in
// the handshake engine.
type UserRepo struct {
	DB    *sql.DB
	Table string // defaults to "users"
	// Validate optionally rejects records before INSERT/UPDATE,
	// selected by the record's scenario tag.
	Validate     ValidateFunc
	timeProvider TimeProvider
}

// NewUserRepo creates a UserRepo with the real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a UserRepo with a custom time provider
// (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

func (r *UserRepo) table() string {
	if r.Table != "" {
		return r.Table
	}
	return "users"
}

// FindOne looks up exactly one user whose attribute equals value.
func (r *UserRepo) FindOne(ctx context.Context, attribute string, value any) (domainauth.UserRecord, error) {
	if !reIdentifier.MatchString(attribute) {
		return nil, apperrors.ValidationField(attribute, "invalid attribute name")
	}
	if !reIdentifier.MatchString(r.table()) {
		return nil, apperrors.ValidationField(r.table(), "invalid table name")
	}

	var row map[string]any
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := fmt.Sprintf(`SELECT * FROM %s WHERE %s = $1 LIMIT 1`,
			pgx.Identifier{r.table()}.Sanitize(),
			pgx.Identifier{attribute}.Sanitize(),
		)
		rows, qerr := conn.Query(ctx, query, value)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		row, qerr = pgx.CollectOneRow(rows, pgx.RowToMap)
		return qerr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrUserNotFound
		}
		return nil, apperrors.MapDBError(err)
	}
	return loadedUserRecord(row), nil
}

// New constructs an unsaved record tagged with the validation scenario.
//
//nolint:ireturn // ports.UserStore contract.
func (r *UserRepo) New(scenario string) domainauth.UserRecord {
	return newUserRecord(scenario)
}

// Save persists a new or modified record. New records INSERT all attributes
// and receive their surrogate id; existing records UPDATE dirty columns only.
func (r *UserRepo) Save(ctx context.Context, rec domainauth.UserRecord) error {
	u, ok := rec.(*userRecord)
	if !ok {
		return apperrors.Validation("record was not produced by this store")
	}
	if r.Validate != nil {
		if err := r.Validate(u.scenario, u.attrs); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeValidation, "validate user")
		}
	}
	if u.persisted {
		return r.update(ctx, u)
	}
	return r.insert(ctx, u)
}

func (r *UserRepo) insert(ctx context.Context, u *userRecord) error {
	cols, vals, err := orderedColumns(u.attrs, u.dirty, false)
	if err != nil {
		return err
	}
	now := r.timeProvider.Now().UTC()
	cols = append(cols, "created_at", "updated_at")
	vals = append(vals, now, now)

	placeholders := make([]string, len(cols))
	quoted := make([]string, len(cols))
	for i, c := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}

	err = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id`,
			pgx.Identifier{r.table()}.Sanitize(),
			strings.Join(quoted, ", "),
			strings.Join(placeholders, ", "),
		)
		var id int64
		if qerr := conn.QueryRow(ctx, query, vals...).Scan(&id); qerr != nil {
			return qerr
		}
		u.attrs["id"] = id
		return nil
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	u.persisted = true
	u.dirty = make(map[string]struct{})
	return nil
}

func (r *UserRepo) update(ctx context.Context, u *userRecord) error {
	if len(u.dirty) == 0 {
		return nil
	}
	id, ok := u.attrs["id"]
	if !ok {
		return apperrors.Validation("persisted record has no id attribute")
	}

	cols, vals, err := orderedColumns(u.attrs, u.dirty, true)
	if err != nil {
		return err
	}

	assignments := make([]string, 0, len(cols)+1)
	for i, c := range cols {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", pgx.Identifier{c}.Sanitize(), i+1))
	}
	vals = append(vals, r.timeProvider.Now().UTC())
	assignments = append(assignments, fmt.Sprintf("updated_at = $%d", len(vals)))
	vals = append(vals, id)

	err = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
			pgx.Identifier{r.table()}.Sanitize(),
			strings.Join(assignments, ", "),
			len(vals),
		)
		tag, qerr := conn.Exec(ctx, query, vals...)
		if qerr != nil {
			return qerr
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ports.ErrUserNotFound
		}
		return apperrors.MapDBError(err)
	}
	u.dirty = make(map[string]struct{})
	return nil
}

// orderedColumns returns attribute columns and values in deterministic
// order, validating every name. The surrogate id column is never included;
// for updates only dirty columns are.
func orderedColumns(attrs map[string]any, dirty map[string]struct{}, dirtyOnly bool) ([]string, []any, error) {
	cols := make([]string, 0, len(attrs))
	for name := range attrs {
		if name == "id" {
			continue
		}
		if dirtyOnly {
			if _, ok := dirty[name]; !ok {
				continue
			}
		}
		if !reIdentifier.MatchString(name) {
			return nil, nil, apperrors.ValidationField(name, "invalid attribute name")
		}
		cols = append(cols, name)
	}
	sort.Strings(cols)

	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = attrs[c]
	}
	return cols, vals, nil
}
