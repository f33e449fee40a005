// SPDX-License-Identifier: AGPL-3.0-or-later
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/btouchard/campaignd/internal/domain/models"
)

// GroupRepository persists ClientGroup rows and their membership join
// table (group id/client id pairs, many-to-many).
type GroupRepository struct {
	db *sql.DB
}

func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(ctx context.Context, group *models.ClientGroup) error {
	const query = `INSERT INTO client_groups (id, name) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, group.ID, group.Name); err != nil {
		return fmt.Errorf("failed to create client group: %w", err)
	}
	return nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id string) (*models.ClientGroup, error) {
	const query = `SELECT id, name FROM client_groups WHERE id = $1`

	g := &models.ClientGroup{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get client group: %w", err)
	}
	return g, nil
}

func (r *GroupRepository) GetByName(ctx context.Context, name string) (*models.ClientGroup, error) {
	const query = `SELECT id, name FROM client_groups WHERE name = $1`

	g := &models.ClientGroup{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&g.ID, &g.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get client group by name: %w", err)
	}
	return g, nil
}

// AddMember inserts a client into a group's membership join table.
// Foreign keys cascade on update and delete.
func (r *GroupRepository) AddMember(ctx context.Context, groupID, clientID string) error {
	const query = `
		INSERT INTO client_group_members (group_id, client_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, groupID, clientID); err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, clientID string) error {
	const query = `DELETE FROM client_group_members WHERE group_id = $1 AND client_id = $2`
	if _, err := r.db.ExecContext(ctx, query, groupID, clientID); err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	return nil
}
