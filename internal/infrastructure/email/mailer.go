// SPDX-License-Identifier: AGPL-3.0-or-later
package email

import (
	"context"
	"fmt"
	"time"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/btouchard/campaignd/internal/domain/models"
	"github.com/btouchard/campaignd/pkg/logger"
)

// RecipientKind discriminates the two forms a send target can take:
// a single Client or a ClientGroup.
type RecipientKind int

const (
	RecipientClient RecipientKind = iota
	RecipientGroup
)

// Recipient is a send target: either a single Client or a ClientGroup.
type Recipient struct {
	Kind   RecipientKind
	Client *models.Client
	Group  *models.ClientGroup
}

// ForClient builds a single-recipient target.
func ForClient(c *models.Client) Recipient { return Recipient{Kind: RecipientClient, Client: c} }

// ForGroup builds a group-recipient target.
func ForGroup(g *models.ClientGroup) Recipient { return Recipient{Kind: RecipientGroup, Group: g} }

// GroupMembers resolves the clients belonging to a group. The adapter
// calls this synchronously before sending rather than caching
// membership.
type GroupMembers interface {
	ListMembers(ctx context.Context, groupID string) ([]*models.Client, error)
}

// AuditRecorder persists the send-log rows for a delivered email.
type AuditRecorder interface {
	RecordClientSend(ctx context.Context, emailID, clientID string, at time.Time) error
	RecordGroupSend(ctx context.Context, emailID, groupID string, at time.Time) error
}

// TemplateSourceStore checks that a TemplateEmail's source reference
// still exists, without ever rendering it.
type TemplateSourceStore interface {
	Exists(ctx context.Context, key string) (bool, error)
}

// Mailer is the action dependency injected into every Scheduler
// consumer: send an email to a client or group, auditing every
// successful delivery.
type Mailer interface {
	Send(ctx context.Context, em *models.Email, recipient Recipient) error
}

// SMTPMailer is the production Mailer: an SMTP Sender paired with a
// database-backed audit write.
type SMTPMailer struct {
	sender    Sender
	members   GroupMembers
	audit     AuditRecorder
	templates TemplateSourceStore // may be nil: disables existence checks
}

func NewSMTPMailer(sender Sender, members GroupMembers, audit AuditRecorder, templates TemplateSourceStore) *SMTPMailer {
	return &SMTPMailer{sender: sender, members: members, audit: audit, templates: templates}
}

func (m *SMTPMailer) Send(ctx context.Context, em *models.Email, recipient Recipient) error {
	switch recipient.Kind {
	case RecipientClient:
		return m.sendToClient(ctx, em, recipient.Client)
	case RecipientGroup:
		return m.sendToGroup(ctx, em, recipient.Group)
	default:
		return fmt.Errorf("%w: unknown recipient kind", models.ErrValidation)
	}
}

func (m *SMTPMailer) sendToClient(ctx context.Context, em *models.Email, client *models.Client) error {
	log := logger.Component("mailer")

	msg, err := m.compose(ctx, em, []string{client.Address})
	if err != nil {
		return err
	}

	if err := m.sender.Send(ctx, msg); err != nil {
		log.Warn("send failed", "email_id", em.ID, "client_id", client.ID, "error", err)
		return fmt.Errorf("%w: %v", models.ErrSend, err)
	}

	if err := m.audit.RecordClientSend(ctx, em.ID, client.ID, time.Now()); err != nil {
		// Writing the audit row is recoverable: log and continue, the send
		// itself already succeeded.
		log.Error("failed to record audit row", "email_id", em.ID, "client_id", client.ID, "error", err)
	}

	return nil
}

// sendToGroup fans out to every member, recording one per-client audit
// row for each success plus a single group-level row, and aggregates
// partial failures with go-multierror so the caller sees every failed
// recipient at once. The overall send succeeds only if every
// per-recipient send succeeded.
func (m *SMTPMailer) sendToGroup(ctx context.Context, em *models.Email, group *models.ClientGroup) error {
	log := logger.Component("mailer")

	members, err := m.members.ListMembers(ctx, group.ID)
	if err != nil {
		return fmt.Errorf("failed to list group members: %w", err)
	}

	var result *multierror.Error
	for _, c := range members {
		if err := m.sendToClient(ctx, em, c); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", c.Address, err))
		}
	}

	if err := m.audit.RecordGroupSend(ctx, em.ID, group.ID, time.Now()); err != nil {
		log.Error("failed to record group audit row", "email_id", em.ID, "group_id", group.ID, "error", err)
	}

	return result.ErrorOrNil()
}

// compose builds the wire Message for a PlainEmail, or rejects a
// TemplateEmail after optionally confirming its source still exists.
func (m *SMTPMailer) compose(ctx context.Context, em *models.Email, to []string) (Message, error) {
	switch em.Variant {
	case models.BodyPlain:
		return Message{To: to, Subject: em.Plain.Subject, Text: em.Plain.Body}, nil
	case models.BodyTemplate:
		if m.templates != nil {
			exists, err := m.templates.Exists(ctx, em.Template.SourcePath)
			if err != nil {
				return Message{}, fmt.Errorf("failed to check template source: %w", err)
			}
			if !exists {
				return Message{}, fmt.Errorf("%w: template source %q not found", models.ErrValidation, em.Template.SourcePath)
			}
		}
		return Message{}, models.ErrTemplateNotRendered
	default:
		return Message{}, fmt.Errorf("%w: unknown body variant", models.ErrValidation)
	}
}
