// SPDX-License-Identifier: AGPL-3.0-or-later
package campaigns

import (
	"context"
	"fmt"

	"github.com/btouchard/campaignd/internal/application/scheduler"
	"github.com/btouchard/campaignd/internal/domain/models"
	"github.com/btouchard/campaignd/internal/domain/trigger"
	infraemail "github.com/btouchard/campaignd/internal/infrastructure/email"
	"github.com/btouchard/campaignd/pkg/logger"
)

// EmailLookup resolves an email definition by catalog id.
type EmailLookup interface {
	GetByID(ctx context.Context, id string) (*models.Email, error)
}

// ClientLookup resolves a single client by catalog id.
type ClientLookup interface {
	GetByID(ctx context.Context, id string) (*models.Client, error)
}

// GroupLookup resolves a client group by catalog id.
type GroupLookup interface {
	GetByID(ctx context.Context, id string) (*models.ClientGroup, error)
}

// Registrar is the subset of *scheduler.Scheduler used by RegisterAll.
type Registrar interface {
	RegisterTriggerWithAction(name string, tr *trigger.Trigger, action scheduler.Action) error
}

// BuildTrigger converts a TriggerSpec into a live, unstarted *trigger.Trigger.
// The conversion is recursive: a "counter" node's Inner spec becomes the
// template that CounterTrigger clones on every iteration.
func BuildTrigger(spec TriggerSpec) (*trigger.Trigger, error) {
	switch spec.Kind {
	case "datetime":
		date, err := buildDate(spec.Date)
		if err != nil {
			return nil, err
		}
		t := buildTime(spec.Time)
		return trigger.NewDatetime(date, t), nil

	case "counter":
		if spec.Inner == nil {
			return nil, fmt.Errorf("counter trigger requires an inner trigger")
		}
		inner, err := BuildTrigger(*spec.Inner)
		if err != nil {
			return nil, err
		}
		rep := trigger.Infinite()
		if spec.Repetition != nil && !spec.Repetition.Infinite {
			rep = trigger.Finite(spec.Repetition.Count)
		}
		return trigger.NewCounter(rep, inner), nil

	default:
		return nil, fmt.Errorf("unknown trigger kind %q", spec.Kind)
	}
}

func buildDate(spec *DateSpec) (models.PartialDate, error) {
	if spec == nil {
		return models.PartialDate{}, nil
	}

	var day *models.Day
	if spec.Day != nil {
		d, err := buildDay(spec.Day)
		if err != nil {
			return models.PartialDate{}, err
		}
		day = &d
	}

	switch {
	case spec.Year != nil && spec.Month != nil && day != nil:
		return models.YMD(*spec.Year, models.Month(*spec.Month), *day), nil
	case spec.Year != nil && spec.Month != nil:
		return models.YM(*spec.Year, models.Month(*spec.Month)), nil
	case spec.Year != nil && day != nil:
		return models.YD(*spec.Year, *day), nil
	case spec.Month != nil && day != nil:
		return models.MD(models.Month(*spec.Month), *day), nil
	case spec.Year != nil:
		return models.Y(*spec.Year), nil
	case spec.Month != nil:
		return models.M(models.Month(*spec.Month)), nil
	case day != nil:
		return models.D(*day), nil
	default:
		return models.PartialDate{}, nil
	}
}

func buildDay(spec *DaySpec) (models.Day, error) {
	if spec.Weekday != nil {
		wd, ok := weekdayNames[*spec.Weekday]
		if !ok {
			return models.Day{}, fmt.Errorf("unknown weekday %q", *spec.Weekday)
		}
		return models.WeekdayDay(wd), nil
	}
	if spec.Ordinal != nil {
		return models.OrdinalDay(*spec.Ordinal), nil
	}
	return models.Day{}, fmt.Errorf("day spec must set weekday or ordinal")
}

func buildTime(spec *NaiveTimeSpec) models.NaiveTime {
	if spec == nil {
		return models.NaiveTime{}
	}
	return models.NaiveTime{Hour: spec.Hour, Minute: spec.Minute, Second: spec.Second}
}

// RegisterAll builds every campaign's trigger and registers it against
// the scheduler, with an action that resolves the email + recipient
// from the catalog at fire time and hands them to the Mailer.
func RegisterAll(registrar Registrar, manifest *Manifest, emails EmailLookup, clients ClientLookup, groups GroupLookup) error {
	for _, c := range manifest.Campaigns {
		tr, err := BuildTrigger(c.Trigger)
		if err != nil {
			return fmt.Errorf("campaign %q: %w", c.Name, err)
		}

		campaign := c // capture for the closure
		action := func(ctx context.Context, generation uint64, mailer infraemail.Mailer) {
			log := logger.Component("campaigns")

			em, err := emails.GetByID(ctx, campaign.EmailID)
			if err != nil {
				log.Error("failed to load email for campaign fire", "campaign", campaign.Name, "generation", generation, "error", err)
				return
			}

			recipient, err := resolveRecipient(ctx, campaign.Recipient, clients, groups)
			if err != nil {
				log.Error("failed to resolve recipient for campaign fire", "campaign", campaign.Name, "generation", generation, "error", err)
				return
			}

			if err := mailer.Send(ctx, em, recipient); err != nil {
				log.Error("send failed", "campaign", campaign.Name, "generation", generation, "error", err)
				return
			}

			log.Info("campaign fired", "campaign", campaign.Name, "generation", generation)
		}

		if err := registrar.RegisterTriggerWithAction(c.Name, tr, action); err != nil {
			return fmt.Errorf("campaign %q: %w", c.Name, err)
		}
	}
	return nil
}

func resolveRecipient(ctx context.Context, spec RecipientSpec, clients ClientLookup, groups GroupLookup) (infraemail.Recipient, error) {
	switch spec.Kind {
	case "client":
		c, err := clients.GetByID(ctx, spec.ID)
		if err != nil {
			return infraemail.Recipient{}, err
		}
		return infraemail.ForClient(c), nil
	case "group":
		g, err := groups.GetByID(ctx, spec.ID)
		if err != nil {
			return infraemail.Recipient{}, err
		}
		return infraemail.ForGroup(g), nil
	default:
		return infraemail.Recipient{}, fmt.Errorf("unknown recipient kind %q", spec.Kind)
	}
}
