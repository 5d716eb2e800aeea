package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/goto/datahub/core/opensearch"
)

// PermissionRepository resolves search access from users and their
// organization memberships.
type PermissionRepository struct {
	client *Client
}

func NewPermissionRepository(c *Client) (*PermissionRepository, error) {
	if c == nil {
		return nil, errNilPostgresClient
	}
	return &PermissionRepository{client: c}, nil
}

// AccessFor returns the access of userID. Anonymous callers, malformed ids
// and unknown users get public access only.
func (r *PermissionRepository) AccessFor(ctx context.Context, userID string) (opensearch.Access, error) {
	if userID == "" || !isValidUUID(userID) {
		return opensearch.PublicAccess(), nil
	}

	query, args, err := sq.Select(
		"u.uuid",
		"u.email",
		"u.sysadmin",
		"COALESCE(array_agg(m.organization_id::text) FILTER (WHERE m.organization_id IS NOT NULL), '{}') AS organizations",
	).
		From("users u").
		LeftJoin("memberships m ON m.user_uuid = u.uuid").
		Where(sq.Eq{"u.uuid": userID}).
		GroupBy("u.uuid", "u.email", "u.sysadmin").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return opensearch.Access{}, fmt.Errorf("error building access query: %w", err)
	}

	var um UserModel
	if err := r.client.db.GetContext(ctx, &um, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return opensearch.PublicAccess(), nil
		}
		return opensearch.Access{}, fmt.Errorf("error getting access of user %q: %w", userID, err)
	}
	return um.toAccess(), nil
}

// CreateUser inserts a user and returns its uuid.
func (r *PermissionRepository) CreateUser(ctx context.Context, email string, sysadmin bool) (string, error) {
	id := uuid.NewString()
	query, args, err := sq.Insert("users").
		Columns("uuid", "email", "sysadmin").
		Values(id, email, sysadmin).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("error building insert user query: %w", err)
	}
	if _, err := r.client.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("error creating user %q: %w", email, checkPostgresError(err))
	}
	return id, nil
}

// CreateOrganization inserts an organization and returns its id.
func (r *PermissionRepository) CreateOrganization(ctx context.Context, name, title string) (string, error) {
	id := uuid.NewString()
	query, args, err := sq.Insert("organizations").
		Columns("id", "name", "title").
		Values(id, name, title).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("error building insert organization query: %w", err)
	}
	if _, err := r.client.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("error creating organization %q: %w", name, checkPostgresError(err))
	}
	return id, nil
}

// AddMember makes the user a member of the organization.
func (r *PermissionRepository) AddMember(ctx context.Context, userUUID, organizationID, capacity string) error {
	if capacity == "" {
		capacity = "member"
	}
	query, args, err := sq.Insert("memberships").
		Columns("user_uuid", "organization_id", "capacity").
		Values(userUUID, organizationID, capacity).
		Suffix("ON CONFLICT (user_uuid, organization_id) DO UPDATE SET capacity = EXCLUDED.capacity").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building insert membership query: %w", err)
	}
	if _, err := r.client.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error adding member: %w", checkPostgresError(err))
	}
	return nil
}
