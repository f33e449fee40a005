// SPDX-License-Identifier: AGPL-3.0-or-later
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/btouchard/campaignd/internal/domain/models"
	"github.com/btouchard/campaignd/pkg/tags"
)

// EmailRepository persists Email definitions plus their discriminated
// PlainEmail/TemplateEmail body.
type EmailRepository struct {
	db *sql.DB
}

func NewEmailRepository(db *sql.DB) *EmailRepository {
	return &EmailRepository{db: db}
}

func (r *EmailRepository) Create(ctx context.Context, em *models.Email) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var plainID, templateID sql.NullString

	switch em.Variant {
	case models.BodyPlain:
		const q = `INSERT INTO plain_emails (id, subject, body) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, q, em.Plain.ID, em.Plain.Subject, em.Plain.Body); err != nil {
			return fmt.Errorf("failed to create plain email: %w", err)
		}
		plainID = sql.NullString{String: em.Plain.ID, Valid: true}
	case models.BodyTemplate:
		const q = `INSERT INTO template_emails (id, subject, body, source_path) VALUES ($1, $2, $3, $4)`
		if _, err := tx.ExecContext(ctx, q, em.Template.ID, em.Template.Subject, em.Template.Body, em.Template.SourcePath); err != nil {
			return fmt.Errorf("failed to create template email: %w", err)
		}
		templateID = sql.NullString{String: em.Template.ID, Valid: true}
	default:
		return fmt.Errorf("%w: unknown body variant", models.ErrValidation)
	}

	const q = `
		INSERT INTO emails (id, sender_address, tag_list, body_variant, plain_id, template_id)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, q, em.ID, em.SenderAddress, tags.Encode(em.Tags), int(em.Variant), plainID, templateID); err != nil {
		return fmt.Errorf("failed to create email: %w", err)
	}

	return tx.Commit()
}

func (r *EmailRepository) GetByID(ctx context.Context, id string) (*models.Email, error) {
	const q = `
		SELECT e.id, e.sender_address, e.tag_list, e.body_variant,
		       p.id, p.subject, p.body,
		       t.id, t.subject, t.body, t.source_path
		FROM emails e
		LEFT JOIN plain_emails p ON p.id = e.plain_id
		LEFT JOIN template_emails t ON t.id = e.template_id
		WHERE e.id = $1`

	var (
		em                                                     models.Email
		tagList                                                string
		variant                                                int
		plainID, plainSubject, plainBody                       sql.NullString
		templateID, templateSubject, templateBody, sourcePath  sql.NullString
	)

	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&em.ID, &em.SenderAddress, &tagList, &variant,
		&plainID, &plainSubject, &plainBody,
		&templateID, &templateSubject, &templateBody, &sourcePath,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrEmailNotFound
		}
		return nil, fmt.Errorf("failed to get email: %w", err)
	}

	em.Tags = tags.Decode(tagList)
	em.Variant = models.BodyVariant(variant)

	switch em.Variant {
	case models.BodyPlain:
		em.Plain = &models.PlainEmail{ID: plainID.String, Subject: plainSubject.String, Body: plainBody.String}
	case models.BodyTemplate:
		em.Template = &models.TemplateEmail{ID: templateID.String, Subject: templateSubject.String, Body: templateBody.String, SourcePath: sourcePath.String}
	}

	return &em, nil
}
