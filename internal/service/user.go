package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"star-admin-api/internal/cache"
	"star-admin-api/internal/model"
	"star-admin-api/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

const userCountsKey = "stats:users"

// UserService handles user moderation and dashboard statistics.
type UserService struct {
	users    repository.UserRepository
	stats    cache.Cache
	statsTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewUserService creates a new user service. Counts are cached in stats for
// statsTTL; a nil cache or zero TTL disables caching.
func NewUserService(users repository.UserRepository, stats cache.Cache, statsTTL time.Duration, logger *zap.Logger) *UserService {
	return &UserService{users: users, stats: stats, statsTTL: statsTTL, logger: logger, now: time.Now}
}

// UserPage is one page of a user listing.
type UserPage struct {
	Users        []model.User
	Page         Page
	TotalRecords int64
}

// List returns a page of users of userType.
func (s *UserService) List(ctx context.Context, userType string, page int) (*UserPage, error) {
	p := NewPage(page)
	users, total, err := s.users.List(ctx, userType, p.Limit, p.Offset())
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Page: p, TotalRecords: total}, nil
}

// ToggleStatus blocks an unblocked user or unblocks a blocked one.
func (s *UserService) ToggleStatus(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.users.ToggleStatus(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if s.stats != nil {
		// stale counts expire with the TTL
		if err := s.stats.Delete(ctx, userCountsKey); err != nil {
			s.logger.Warn("failed to invalidate user counts", zap.String("key", userCountsKey), zap.Error(err))
		}
	}
	return u, nil
}

// UserCounts holds the dashboard tiles, already formatted.
type UserCounts struct {
	TotalUsers   string `json:"totalUsers"`
	TotalStars   string `json:"totalStars"`
	ActiveUsers  string `json:"activeUsers"`
	BlockedUsers string `json:"blockedUsers"`
}

// Counts returns the dashboard tiles, from cache when fresh.
func (s *UserService) Counts(ctx context.Context) (*UserCounts, error) {
	if s.stats == nil || s.statsTTL <= 0 {
		return s.countUsers(ctx)
	}

	raw, err := s.stats.GetOrSet(ctx, userCountsKey, s.statsTTL, func() ([]byte, error) {
		counts, err := s.countUsers(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(counts)
	})
	if err != nil {
		return nil, err
	}

	var counts UserCounts
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode cached counts: %w", err)
	}
	return &counts, nil
}

// countUsers runs the four dashboard counts concurrently.
func (s *UserService) countUsers(ctx context.Context) (*UserCounts, error) {
	var users, stars, active, blocked int64

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.users.CountByType(ctx, model.UserTypeUser)
		return err
	})
	g.Go(func() (err error) {
		stars, err = s.users.CountByType(ctx, model.UserTypeStar)
		return err
	})
	g.Go(func() (err error) {
		active, err = s.users.CountByStatus(ctx, true)
		return err
	})
	g.Go(func() (err error) {
		blocked, err = s.users.CountByStatus(ctx, false)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return &UserCounts{
		TotalUsers:   FormatCount(users),
		TotalStars:   FormatCount(stars),
		ActiveUsers:  FormatCount(active),
		BlockedUsers: FormatCount(blocked),
	}, nil
}

// YearlySignups is the signup breakdown for one calendar year.
type YearlySignups struct {
	TotalSignups string            `json:"totalSignups"`
	Year         int               `json:"year"`
	Months       map[string]string `json:"months"`
}

// SignupsByYear counts signups per month of year. Months are keyed by
// English name and rendered as "{n}".
func (s *UserService) SignupsByYear(ctx context.Context, year int) (*YearlySignups, error) {
	if year < 1900 || year > s.now().Year() {
		return nil, invalid("year", "Invalid year provided.")
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	times, err := s.users.CreatedBetween(ctx, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}

	var perMonth [12]int64
	for _, t := range times {
		perMonth[t.UTC().Month()-1]++
	}

	months := make(map[string]string, len(monthNames))
	for i, name := range monthNames {
		months[name] = "{" + FormatCount(perMonth[i]) + "}"
	}

	return &YearlySignups{
		TotalSignups: FormatCount(int64(len(times))),
		Year:         year,
		Months:       months,
	}, nil
}
