package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"resto/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMenuService_CreateDish(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	t.Run("valid dish", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewMenuService(repo, &logger)

		dish := &models.Dish{Name: "Tomato Soup", Price: 7.50, CookingTimeMinutes: 10, IsAvailable: true}
		repo.On("CreateDish", ctx, dish).Return(nil).Once()

		assert.NoError(t, svc.CreateDish(ctx, dish))
		repo.AssertExpectations(t)
	})

	t.Run("collects every violated rule", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewMenuService(repo, &logger)

		err := svc.CreateDish(ctx, &models.Dish{Name: "", Price: 0, CookingTimeMinutes: -5})
		require.Error(t, err)

		var verrs models.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Len(t, verrs, 3)
		repo.AssertNotCalled(t, "CreateDish", mock.Anything, mock.Anything)
	})
}

func TestMenuService_ListDishes(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)
	repo := new(mockRepo)
	svc := NewMenuService(repo, &logger)

	available := []*models.Dish{{ID: 1, Name: "Lemonade", IsAvailable: true}}
	repo.On("ListDishes", ctx, true).Return(available, nil).Once()

	dishes, err := svc.ListDishes(ctx, true)
	require.NoError(t, err)
	assert.Len(t, dishes, 1)
}
