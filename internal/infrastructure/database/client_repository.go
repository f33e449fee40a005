// SPDX-License-Identifier: AGPL-3.0-or-later
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/btouchard/campaignd/internal/domain/models"
)

// ClientRepository persists Client rows using a plain query/scan shape.
type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	if err := models.ValidateAddress(client.Address); err != nil {
		return err
	}
	address := models.NormalizeAddress(client.Address)

	const query = `INSERT INTO clients (id, address) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, client.ID, address); err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	const query = `SELECT id, address FROM clients WHERE id = $1`

	c := &models.Client{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

// ListMembers implements email.GroupMembers: it fetches the clients
// belonging to a group synchronously, immediately before sending, so a
// membership change takes effect on the very next send.
func (r *ClientRepository) ListMembers(ctx context.Context, groupID string) ([]*models.Client, error) {
	const query = `
		SELECT c.id, c.address
		FROM clients c
		JOIN client_group_members m ON m.client_id = c.id
		WHERE m.group_id = $1
		ORDER BY c.id`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var members []*models.Client
	for rows.Next() {
		c := &models.Client{}
		if err := rows.Scan(&c.ID, &c.Address); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		members = append(members, c)
	}
	return members, rows.Err()
}
