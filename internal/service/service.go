package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/couplebot/internal/models"
	"github.com/Kerhoff/couplebot/internal/repository"
)

// ErrInvalidRating is returned for ratings outside 1..5.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Service is the business logic layer: it holds the repositories, the fixed
// two-member allow-list and the partner notifier.
type Service struct {
	logger  *logrus.Logger
	allowed []int64

	Users  repository.UserRepository
	Tasks  repository.TaskRepository
	Wishes repository.WishRepository
	Movies repository.MovieRepository

	Notifier *Notifier
}

// New creates a new Service. allowed must hold exactly the two permitted
// user ids.
func New(logger *logrus.Logger, allowed []int64, notifier *Notifier,
	users repository.UserRepository,
	tasks repository.TaskRepository,
	wishes repository.WishRepository,
	movies repository.MovieRepository,
) *Service {
	return &Service{
		logger: logger, allowed: allowed, Notifier: notifier,
		Users: users, Tasks: tasks, Wishes: wishes, Movies: movies,
	}
}

// IsAllowed reports whether the user id is on the allow-list. Anyone else is
// rejected at entry with no record created.
func (s *Service) IsAllowed(userID int64) bool {
	for _, id := range s.allowed {
		if id == userID {
			return true
		}
	}
	return false
}

// RegisterUser registers an allow-listed user and establishes the pairing.
// If the user already has a partner the link is kept; otherwise the other
// allow-listed member becomes the partner and the reverse row is written too,
// keeping the relation symmetric.
func (s *Service) RegisterUser(ctx context.Context, userID int64) (*models.User, error) {
	partnerID, err := s.Users.GetPartnerID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup partner for user %d: %w", userID, err)
	}

	if partnerID == nil {
		for _, id := range s.allowed {
			if id != userID {
				partner := id
				partnerID = &partner
				break
			}
		}
	}

	if err := s.Users.Upsert(ctx, userID, partnerID); err != nil {
		return nil, err
	}
	if partnerID != nil {
		// Back-link so the partner sees this user too.
		if err := s.Users.Upsert(ctx, *partnerID, &userID); err != nil {
			return nil, err
		}
		s.logger.WithFields(logrus.Fields{
			"user_id":    userID,
			"partner_id": *partnerID,
		}).Info("Pair registered")
	}

	return &models.User{ID: userID, PartnerID: partnerID}, nil
}

// Viewer resolves the user row used by the visibility views. An unregistered
// user is treated as one with no partner so the sentinel substitution applies.
func (s *Service) Viewer(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &models.User{ID: userID}, nil
	}
	return user, nil
}

// NotifyPartner enqueues a best-effort message to the user's partner. A
// missing partner is a no-op. Delivery happens asynchronously and never
// affects the mutation that triggered it.
func (s *Service) NotifyPartner(ctx context.Context, userID int64, text string) {
	partnerID, err := s.Users.GetPartnerID(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).
			Error("Failed to resolve partner for notification")
		return
	}
	if partnerID == nil {
		return
	}
	s.Notifier.Notify(*partnerID, text)
}

// RateMovie validates and stores a 1..5 rating.
func (s *Service) RateMovie(ctx context.Context, movieID int64, rating int) (bool, error) {
	if rating < 1 || rating > 5 {
		return false, ErrInvalidRating
	}
	return s.Movies.SetRating(ctx, movieID, rating)
}
