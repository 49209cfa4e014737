package service

import (
	"context"
	"fmt"
	"strings"

	"atelier/internal/model"
	"atelier/internal/repository"

	"github.com/rs/zerolog"
)

// StatusFilterAll disables the last status filter.
const StatusFilterAll = "all"

// adminService implements AdminService.
type adminService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(userRepo repository.UserRepository, logger zerolog.Logger) AdminService {
	return &adminService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "admin").Logger(),
	}
}

// ListUsers returns users with their order aggregates. Users without orders
// report the "no orders" status.
func (s *adminService) ListUsers(ctx context.Context, query string) ([]model.UserSummary, error) {
	query = strings.TrimSpace(query)

	users, err := s.userRepo.ListWithSummary(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("failed to list users")
		if repository.IsUnavailable(err) {
			return nil, fmt.Errorf("failed to list users: %w: %v", model.ErrServiceUnavailable, err)
		}
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	for i := range users {
		if users[i].LastOrderStatus == "" {
			users[i].LastOrderStatus = model.NoOrdersStatus
		}
	}
	if users == nil {
		users = []model.UserSummary{}
	}

	s.logger.Debug().Str("query", query).Int("count", len(users)).Msg("users listed")
	return users, nil
}

// FilterByLastStatus keeps the users whose last order has the given status.
// "all" or an empty status keeps everyone.
func FilterByLastStatus(users []model.UserSummary, status string) []model.UserSummary {
	if status == "" || status == StatusFilterAll {
		return users
	}

	filtered := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		if u.LastOrderStatus == status {
			filtered = append(filtered, u)
		}
	}
	return filtered
}
