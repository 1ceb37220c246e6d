// Package reviews holds the per-venue review store the venue screens
// read from: a cached list with submit, refresh and aggregate on top of
// the review repository. Storage failures degrade to a toast and a log
// line; nothing escapes the store.
package reviews

import (
	"context"
	"math"
	"sync"

	venuereviews "fitclub/internal/domain/venuereview"

	"go.uber.org/zap"
)

// Toaster matches watcher.Toaster; redeclared locally so the store can
// be used without importing the watcher.
type Toaster interface {
	Success(title, description string)
	Error(title, description string)
}

// Repository is the slice of the review store's persistence the Store
// needs.
type Repository interface {
	ListByVenueCode(ctx context.Context, venueCode string) ([]venuereviews.Review, error)
	Create(ctx context.Context, venueCode string, review *venuereviews.Review) error
}

type SubmitInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=500"`
}

// Store caches the reviews of one venue. The venue code is fixed at
// construction; an empty code is a valid unscoped store that never
// queries and never errors.
type Store struct {
	venueCode string
	repo      Repository
	toast     Toaster
	logger    *zap.SugaredLogger

	mu      sync.Mutex
	list    []venuereviews.Review
	count   int
	loading bool
}

func NewStore(venueCode string, repo Repository, toast Toaster, logger *zap.SugaredLogger) *Store {
	return &Store{
		venueCode: venueCode,
		repo:      repo,
		toast:     toast,
		logger:    logger,
	}
}

// FetchReviews refreshes the cached list, newest first. An unscoped
// store reports an empty list without touching the repository. On a
// query failure the previously held list is kept.
func (s *Store) FetchReviews(ctx context.Context) []venuereviews.Review {
	if s.venueCode == "" {
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	list, err := s.repo.ListByVenueCode(ctx, s.venueCode)
	if err != nil {
		s.logger.Errorw("fetching reviews failed", "venue", s.venueCode, "error", err)
		s.toast.Error("Ошибка", "Не удалось загрузить отзывы")
		return s.Reviews()
	}

	s.mu.Lock()
	s.list = list
	s.count = len(list)
	s.mu.Unlock()

	return s.Reviews()
}

// SubmitReview inserts a review for the acting user and, on success,
// awaits one full refresh so callers see the new review and aggregate
// immediately. There is no optimistic append.
func (s *Store) SubmitReview(ctx context.Context, in SubmitInput, userID int64) bool {
	if s.venueCode == "" {
		return false
	}

	review := &venuereviews.Review{
		UserID: &userID,
		Rating: in.Rating,
	}
	if in.Comment != "" {
		review.Comment = &in.Comment
	}

	if err := s.repo.Create(ctx, s.venueCode, review); err != nil {
		s.logger.Errorw("submitting review failed", "venue", s.venueCode, "user", userID, "error", err)
		s.toast.Error("Ошибка", "Не удалось отправить отзыв")
		return false
	}

	s.toast.Success("Спасибо!", "Ваш отзыв добавлен")
	s.FetchReviews(ctx)
	return true
}

// AverageRating is the arithmetic mean of the cached ratings rounded to
// one decimal. A rating stored null counts as 0; an empty list is 0,
// never NaN.
func (s *Store) AverageRating() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.list) == 0 {
		return 0
	}

	sum := 0
	for i := range s.list {
		sum += s.list[i].Rating
	}
	average := float64(sum) / float64(len(s.list))
	return math.Round(average*10) / 10
}

// Reviews returns a copy of the cached list.
func (s *Store) Reviews() []venuereviews.Review {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]venuereviews.Review, len(s.list))
	copy(out, s.list)
	return out
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
