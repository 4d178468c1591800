package projects

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/innovation-platform/internal/application"
	"github.com/bryanwahyu/innovation-platform/internal/domain"
	"github.com/bryanwahyu/innovation-platform/internal/infra/db/memory"
)

func TestCreateProject(t *testing.T) {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	svc := &Service{Repo: memory.NewStore().Projects(), Clock: application.FixedClock{T: at}}

	p, err := svc.Create(context.Background(), CreateProjectCommand{Name: "  Coffee Shop  "})
	require.NoError(t, err)
	assert.Equal(t, "Coffee Shop", p.Name)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, map[string]any{}, p.Metadata)
	assert.Equal(t, at, p.CreatedAt)

	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
}

func TestCreateProjectRequiresName(t *testing.T) {
	svc := &Service{Repo: memory.NewStore().Projects(), Clock: application.SystemClock{}}

	for _, name := range []string{"", "   "} {
		_, err := svc.Create(context.Background(), CreateProjectCommand{Name: name})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, "name is required", err.Error())
	}
}

func TestListNewestFirstAndDelete(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	first := &Service{Repo: store.Projects(), Clock: application.FixedClock{T: time.Unix(100, 0)}}
	second := &Service{Repo: store.Projects(), Clock: application.FixedClock{T: time.Unix(200, 0)}}

	a, err := first.Create(ctx, CreateProjectCommand{Name: "old", Metadata: map[string]any{"owner": "ana"}})
	require.NoError(t, err)
	b, err := second.Create(ctx, CreateProjectCommand{Name: "new"})
	require.NoError(t, err)

	list, err := first.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, "ana", list[1].Metadata["owner"])

	require.NoError(t, first.Delete(ctx, a.ID))
	_, err = first.Get(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, first.Delete(ctx, a.ID), domain.ErrNotFound)
}
