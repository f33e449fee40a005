// SPDX-License-Identifier: AGPL-3.0-or-later
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AuditRepository writes the send-log rows for a delivered email: a
// group-level row plus one row per client that received it, so either
// query shape ("when did this reach this group" or "when did this
// reach this client") is answerable without a join through membership
// that might have since changed. See DESIGN.md.
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// RecordClientSend implements email.AuditRecorder.
func (r *AuditRepository) RecordClientSend(ctx context.Context, emailID, clientID string, at time.Time) error {
	const q = `INSERT INTO email_client_sends (email_id, client_id, sent_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, q, emailID, clientID, at.Unix()); err != nil {
		return fmt.Errorf("failed to record client send: %w", err)
	}
	return nil
}

// RecordGroupSend implements email.AuditRecorder.
func (r *AuditRepository) RecordGroupSend(ctx context.Context, emailID, groupID string, at time.Time) error {
	const q = `INSERT INTO email_group_sends (email_id, group_id, sent_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, q, emailID, groupID, at.Unix()); err != nil {
		return fmt.Errorf("failed to record group send: %w", err)
	}
	return nil
}
