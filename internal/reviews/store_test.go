package reviews

import (
	"context"
	"errors"
	"testing"
	"time"

	venuereviews "fitclub/internal/domain/venuereview"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeRepo struct {
	reviews   []venuereviews.Review
	listCalls int
	listErr   error
	createErr error
	nextID    int64
}

func (f *fakeRepo) ListByVenueCode(ctx context.Context, venueCode string) ([]venuereviews.Review, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]venuereviews.Review, len(f.reviews))
	copy(out, f.reviews)
	return out, nil
}

func (f *fakeRepo) Create(ctx context.Context, venueCode string, review *venuereviews.Review) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	review.ID = f.nextID
	review.CreatedAt = time.Now()
	// newest first, like the repository's ORDER BY
	f.reviews = append([]venuereviews.Review{*review}, f.reviews...)
	return nil
}

type fakeToaster struct {
	successes []string
	errors    []string
}

func (f *fakeToaster) Success(title, description string) {
	f.successes = append(f.successes, title+": "+description)
}

func (f *fakeToaster) Error(title, description string) {
	f.errors = append(f.errors, title+": "+description)
}

func withRatings(ratings ...int) []venuereviews.Review {
	out := make([]venuereviews.Review, len(ratings))
	for i, r := range ratings {
		out[i] = venuereviews.Review{ID: int64(i + 1), Rating: r}
	}
	return out
}

func newTestStore(venueCode string, repo *fakeRepo) (*Store, *fakeToaster) {
	toast := &fakeToaster{}
	return NewStore(venueCode, repo, toast, zap.NewNop().Sugar()), toast
}

func TestStore_AverageRating(t *testing.T) {
	cases := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{"empty list", nil, 0},
		{"whole average", []int{5, 3, 4}, 4.0},
		{"half average", []int{5, 4}, 4.5},
		{"null rating counts as zero", []int{5, 0, 4}, 3.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRepo{reviews: withRatings(tc.ratings...)}
			store, _ := newTestStore("gym-1", repo)
			store.FetchReviews(context.Background())

			assert.Equal(t, tc.want, store.AverageRating())
		})
	}
}

func TestStore_FetchReviews_EmptyVenueCode(t *testing.T) {
	repo := &fakeRepo{reviews: withRatings(5)}
	store, toast := newTestStore("", repo)

	list := store.FetchReviews(context.Background())

	if len(list) != 0 {
		t.Errorf("Expected empty list, got %d reviews", len(list))
	}
	if repo.listCalls != 0 {
		t.Errorf("Expected no repository calls, got %d", repo.listCalls)
	}
	if len(toast.errors) != 0 {
		t.Errorf("Missing venue scope is not an error, got %v", toast.errors)
	}
}

func TestStore_FetchReviews_FailureKeepsOldList(t *testing.T) {
	repo := &fakeRepo{reviews: withRatings(5, 4)}
	store, toast := newTestStore("gym-1", repo)

	store.FetchReviews(context.Background())
	assert.Equal(t, 2, store.Count())

	repo.listErr = errors.New("connection refused")
	list := store.FetchReviews(context.Background())

	assert.Equal(t, 2, len(list), "a failed refresh must not clear held data")
	assert.Equal(t, 2, store.Count())
	assert.Equal(t, 1, len(toast.errors))
	assert.False(t, store.Loading(), "loading flag must reset on the error path")
}

func TestStore_SubmitReview_Success(t *testing.T) {
	repo := &fakeRepo{reviews: withRatings(5, 3, 4)}
	store, toast := newTestStore("gym-1", repo)
	store.FetchReviews(context.Background())
	before := store.Count()

	ok := store.SubmitReview(context.Background(), SubmitInput{Rating: 5, Comment: "Great!"}, 7)

	assert.True(t, ok)
	assert.Equal(t, before+1, store.Count(), "successful submit re-fetches the augmented set")
	assert.Equal(t, 1, len(toast.successes))

	list := store.Reviews()
	if assert.NotEmpty(t, list) {
		assert.Equal(t, 5, list[0].Rating, "new review arrives at the head")
	}
}

func TestStore_SubmitReview_Failure(t *testing.T) {
	repo := &fakeRepo{reviews: withRatings(5, 3)}
	store, toast := newTestStore("gym-1", repo)
	store.FetchReviews(context.Background())

	repo.createErr = errors.New("insert failed")
	ok := store.SubmitReview(context.Background(), SubmitInput{Rating: 1}, 7)

	assert.False(t, ok)
	assert.Equal(t, 2, store.Count(), "failed submit leaves the list unchanged")
	assert.Equal(t, 1, len(toast.errors))
	assert.Empty(t, toast.successes)
}

func TestStore_SubmitReview_NoVenueScope(t *testing.T) {
	repo := &fakeRepo{}
	store, _ := newTestStore("", repo)

	ok := store.SubmitReview(context.Background(), SubmitInput{Rating: 5}, 7)

	assert.False(t, ok)
	assert.Equal(t, 0, repo.listCalls)
}

func TestStore_EndToEndAggregate(t *testing.T) {
	repo := &fakeRepo{reviews: withRatings(5, 5, 4, 2)}
	store, _ := newTestStore("gym-42", repo)
	store.FetchReviews(context.Background())

	assert.Equal(t, 4.0, store.AverageRating())
	assert.Equal(t, 4, store.Count())

	ok := store.SubmitReview(context.Background(), SubmitInput{Rating: 5}, 7)

	assert.True(t, ok)
	assert.Equal(t, 4.2, store.AverageRating())
	assert.Equal(t, 5, store.Count())
}
