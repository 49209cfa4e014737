package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"atelier/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_ListUsers(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := NewAdminService(repo, zerolog.Nop())

	last := time.Now()
	repo.On("ListWithSummary", ctx, "ann").Return([]model.UserSummary{
		{ID: 2, Email: "ann@example.com", TotalOrders: 1, LifetimeValue: 500, LastOrderStatus: "pending", LastOrderAt: &last},
		{ID: 1, Email: "anna@example.com"},
	}, nil)

	users, err := svc.ListUsers(ctx, "  ann ")

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "pending", users[0].LastOrderStatus)
	assert.Equal(t, model.NoOrdersStatus, users[1].LastOrderStatus)
	assert.Nil(t, users[1].LastOrderAt)
	repo.AssertExpectations(t)
}

func TestAdminService_ListUsers_Empty(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := NewAdminService(repo, zerolog.Nop())

	repo.On("ListWithSummary", ctx, "").Return(nil, nil)

	users, err := svc.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestAdminService_ListUsers_Error(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := NewAdminService(repo, zerolog.Nop())

	repo.On("ListWithSummary", ctx, "").Return(nil, errors.New("syntax error"))

	_, err := svc.ListUsers(ctx, "")
	require.Error(t, err)
	assert.Equal(t, model.KindUnexpected, model.KindOf(err))
}

func TestFilterByLastStatus(t *testing.T) {
	users := []model.UserSummary{
		{ID: 1, LastOrderStatus: "pending"},
		{ID: 2, LastOrderStatus: "completed"},
		{ID: 3, LastOrderStatus: model.NoOrdersStatus},
		{ID: 4, LastOrderStatus: "pending"},
	}

	tests := []struct {
		status   string
		expected []int64
	}{
		{status: "all", expected: []int64{1, 2, 3, 4}},
		{status: "", expected: []int64{1, 2, 3, 4}},
		{status: "pending", expected: []int64{1, 4}},
		{status: "no orders", expected: []int64{3}},
		{status: "rejected", expected: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := FilterByLastStatus(users, tt.status)
			ids := make([]int64, 0, len(got))
			for _, u := range got {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}
