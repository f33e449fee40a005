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

func TestClientRepository_CreateAndGetByID(t *testing.T) {
	testDB := SetupTestDB(t)
	repo := NewClientRepository(testDB.DB)
	ctx := context.Background()

	client := &models.Client{ID: "client-1", Address: "Person@EXAMPLE.com"}
	require.NoError(t, repo.Create(ctx, client))

	got, err := repo.GetByID(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "Person@example.com", got.Address)
}

func TestClientRepository_GetByID_NotFound(t *testing.T) {
	testDB := SetupTestDB(t)
	repo := NewClientRepository(testDB.DB)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrClientNotFound)
}

func TestClientRepository_ListMembers(t *testing.T) {
	testDB := SetupTestDB(t)
	clients := NewClientRepository(testDB.DB)
	groups := NewGroupRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, groups.Create(ctx, &models.ClientGroup{ID: "group-1", Name: "Everyone"}))
	require.NoError(t, clients.Create(ctx, &models.Client{ID: "client-1", Address: "a@example.com"}))
	require.NoError(t, clients.Create(ctx, &models.Client{ID: "client-2", Address: "b@example.com"}))
	require.NoError(t, groups.AddMember(ctx, "group-1", "client-1"))
	require.NoError(t, groups.AddMember(ctx, "group-1", "client-2"))

	members, err := clients.ListMembers(ctx, "group-1")
	require.NoError(t, err)
	assert.Len(t, members, 2)
}
