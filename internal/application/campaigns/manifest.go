// SPDX-License-Identifier: AGPL-3.0-or-later
// Package campaigns implements declarative trigger registration: a YAML
// manifest read once at startup naming which email goes to which
// recipient on which trigger. This is not persistent trigger storage --
// it is parsed into in-memory Trigger values and handed to the
// Scheduler exactly once, per process lifetime.
package campaigns

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/btouchard/campaignd/internal/domain/models"
)

// Manifest is the root of a campaigns.yaml file.
type Manifest struct {
	Campaigns []Campaign `yaml:"campaigns"`
}

// Campaign names one email+recipient+trigger binding.
type Campaign struct {
	Name      string        `yaml:"name"`
	EmailID   string        `yaml:"email_id"`
	Recipient RecipientSpec `yaml:"recipient"`
	Trigger   TriggerSpec   `yaml:"trigger"`
}

// RecipientSpec names either a client or a group by catalog id.
type RecipientSpec struct {
	Kind string `yaml:"kind"` // "client" or "group"
	ID   string `yaml:"id"`
}

// TriggerSpec is the recursive trigger description: a "datetime" leaf,
// or a "counter" node wrapping an Inner TriggerSpec.
type TriggerSpec struct {
	Kind string `yaml:"kind"` // "datetime" or "counter"

	// datetime fields
	Date *DateSpec      `yaml:"date,omitempty"`
	Time *NaiveTimeSpec `yaml:"time,omitempty"`

	// counter fields
	Repetition *RepetitionSpec `yaml:"repetition,omitempty"`
	Inner      *TriggerSpec    `yaml:"inner,omitempty"`
}

// DateSpec mirrors models.PartialDate's possibly-present fields.
type DateSpec struct {
	Year  *int     `yaml:"year,omitempty"`
	Month *int     `yaml:"month,omitempty"`
	Day   *DaySpec `yaml:"day,omitempty"`
}

// DaySpec is either a named weekday or an ordinal day-of-month.
type DaySpec struct {
	Weekday *string `yaml:"weekday,omitempty"`
	Ordinal *int    `yaml:"ordinal,omitempty"`
}

// NaiveTimeSpec mirrors models.NaiveTime.
type NaiveTimeSpec struct {
	Hour   int `yaml:"hour"`
	Minute int `yaml:"minute"`
	Second int `yaml:"second"`
}

// RepetitionSpec mirrors trigger.Repetition.
type RepetitionSpec struct {
	Infinite bool   `yaml:"infinite"`
	Count    uint64 `yaml:"count"`
}

// Load reads and parses a campaigns manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read campaigns manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse campaigns manifest: %w", err)
	}

	return &m, nil
}

var weekdayNames = map[string]models.Weekday{
	"monday":    models.Monday,
	"tuesday":   models.Tuesday,
	"wednesday": models.Wednesday,
	"thursday":  models.Thursday,
	"friday":    models.Friday,
	"saturday":  models.Saturday,
	"sunday":    models.Sunday,
}
