package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingQuery_List(t *testing.T) {
	uc := NewListingQueryUsecase(seededRepo(t, 0.1, 0.2, 0.3), nil)

	page, err := uc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultListLimit, page.Limit)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "c", page.Items[0].ID(), "newest discovered first")

	page, err = uc.List(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "b", page.Items[0].ID())
}

func TestListingQuery_InvalidPaging(t *testing.T) {
	uc := NewListingQueryUsecase(seededRepo(t), nil)
	tests := []struct {
		name          string
		limit, offset int
	}{
		{name: "negative limit", limit: -1},
		{name: "limit too large", limit: maxListLimit + 1},
		{name: "negative offset", limit: 10, offset: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.List(context.Background(), tt.limit, tt.offset)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestListingQuery_RepoFailure(t *testing.T) {
	uc := NewListingQueryUsecase(failingRepo{err: errBoom}, nil)
	_, err := uc.List(context.Background(), 10, 0)
	assert.ErrorIs(t, err, ErrInternal)

	uc = NewListingQueryUsecase(failingRepo{err: context.Canceled}, nil)
	_, err = uc.List(context.Background(), 10, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
