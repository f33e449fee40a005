//go:build integration

// SPDX-License-Identifier: AGPL-3.0-or-later
package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btouchard/campaignd/internal/domain/models"
)

func TestEmailRepository_PlainRoundTrip(t *testing.T) {
	testDB := SetupTestDB(t)
	repo := NewEmailRepository(testDB.DB)
	ctx := context.Background()

	em, err := models.NewPlainEmail("email-1", "sender@example.com", []string{"newsletter"}, "Hello", "Body text")
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, em))

	got, err := repo.GetByID(ctx, "email-1")
	require.NoError(t, err)
	assert.Equal(t, models.BodyPlain, got.Variant)
	assert.Equal(t, []string{"newsletter"}, got.Tags)
	assert.Equal(t, "Hello", got.Plain.Subject)
	assert.Equal(t, "Body text", got.Plain.Body)
}

func TestEmailRepository_TemplateRoundTrip(t *testing.T) {
	testDB := SetupTestDB(t)
	repo := NewEmailRepository(testDB.DB)
	ctx := context.Background()

	em, err := models.NewTemplateEmail("email-2", "sender@example.com", nil, "Welcome", "", "templates/welcome.html")
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, em))

	got, err := repo.GetByID(ctx, "email-2")
	require.NoError(t, err)
	assert.Equal(t, models.BodyTemplate, got.Variant)
	assert.Equal(t, "templates/welcome.html", got.Template.SourcePath)
}

func TestEmailRepository_GetByID_NotFound(t *testing.T) {
	testDB := SetupTestDB(t)
	repo := NewEmailRepository(testDB.DB)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrEmailNotFound)
}
