package credentials

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/intakeworks/storygate/pkg/pagination"
	"github.com/intakeworks/storygate/pkg/repository"
)

// Repository provides postgres access to issued credentials.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a credential Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanCredential(s repository.Scanner) (Credential, error) {
	var c Credential
	err := s.Scan(
		&c.ID,
		&c.IdentityHash,
		&c.Code,
		&c.Tier,
		&c.Score,
		&c.ScoreSource,
		&c.Submission,
		&c.IssuedAt,
	)
	return c, err
}

const credentialColumns = `id, identity_hash, code, tier, score, score_source, submission, issued_at`

// Insert stores a credential. The unique index on identity_hash makes a
// second insert for the same identity fail with ErrAlreadyIssued.
func (r *Repository) Insert(ctx context.Context, c Credential) error {
	query := `
		INSERT INTO credentials (` + credentialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	err := repository.ExecExpectOne(ctx, r.db, query,
		c.ID, c.IdentityHash, c.Code, c.Tier, c.Score, c.ScoreSource, c.Submission, c.IssuedAt)
	if err != nil {
		return fmt.Errorf("insert credential: %w", repository.MapError(err, ErrNotFound, ErrAlreadyIssued))
	}
	return nil
}

// GetByIdentity returns the credential issued to an identity hash, or
// ErrNotFound when none exists.
func (r *Repository) GetByIdentity(ctx context.Context, identityHash string) (Credential, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE identity_hash = $1`

	c, err := repository.QueryOne(ctx, r.db, query, []any{identityHash}, scanCredential)
	if err != nil {
		return Credential{}, fmt.Errorf("get credential by identity: %w", repository.MapError(err, ErrNotFound, ErrAlreadyIssued))
	}
	return c, nil
}

// GetByID returns a credential by primary key.
func (r *Repository) GetByID(ctx context.Context, id string) (Credential, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE id = $1`

	c, err := repository.QueryOne(ctx, r.db, query, []any{id}, scanCredential)
	if err != nil {
		return Credential{}, fmt.Errorf("get credential: %w", repository.MapError(err, ErrNotFound, ErrAlreadyIssued))
	}
	return c, nil
}

// List returns a page of credentials, newest first, optionally filtered
// by tier.
func (r *Repository) List(ctx context.Context, page pagination.PageRequest, tier string) (pagination.PageResult[Credential], error) {
	var zero pagination.PageResult[Credential]

	where := ""
	args := []any{}
	if tier != "" {
		where = "WHERE tier = $1"
		args = append(args, tier)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM credentials " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return zero, fmt.Errorf("count credentials: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+credentialColumns+`
		FROM credentials
		%s
		ORDER BY issued_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, page.PageSize, page.Offset())

	items, err := repository.QueryMany(ctx, r.db, query, args, scanCredential)
	if err != nil {
		return zero, fmt.Errorf("list credentials: %w", err)
	}

	return pagination.NewPageResult(items, total, page), nil
}

// CountByTier returns issuance totals per tier for the analytics endpoint.
func (r *Repository) CountByTier(ctx context.Context) (map[string]int, error) {
	query := `SELECT tier, COUNT(*) FROM credentials GROUP BY tier`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count by tier: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tier string
		var count int
		if err := rows.Scan(&tier, &count); err != nil {
			return nil, fmt.Errorf("scan tier count: %w", err)
		}
		counts[tier] = count
	}
	return counts, rows.Err()
}
