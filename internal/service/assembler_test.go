package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/godilite/kiosk-feedback/internal/repository/models"
	"github.com/godilite/kiosk-feedback/internal/service/mocks"
)

// memoryStore backs MockFeedbackRepository with maps that enforce the same
// uniqueness rules as the SQL schema.
type memoryStore struct {
	mu          sync.Mutex
	feedback    map[string]models.Feedback
	staffLinks  map[[2]string]models.StaffLink
	reasonLinks []models.ReasonLink
	creates     int
}

func newMemoryStore() (*memoryStore, *mocks.MockFeedbackRepository) {
	s := &memoryStore{
		feedback:   make(map[string]models.Feedback),
		staffLinks: make(map[[2]string]models.StaffLink),
	}
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	repo := &mocks.MockFeedbackRepository{
		CreateFeedbackFunc: func(ctx context.Context, f models.Feedback) (models.Feedback, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.feedback[f.ID]; ok {
				return models.Feedback{}, fmt.Errorf("insert feedback: %w", models.ErrDuplicateKey)
			}
			s.creates++
			f.CreatedAt = now.Add(time.Duration(s.creates) * time.Second)
			s.feedback[f.ID] = f
			return f, nil
		},
		FindFeedbackFunc: func(ctx context.Context, id string) (models.Feedback, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			f, ok := s.feedback[id]
			if !ok {
				return models.Feedback{}, models.ErrNotFound
			}
			return f, nil
		},
		CreateStaffLinkFunc: func(ctx context.Context, link models.StaffLink) (models.StaffLink, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			key := [2]string{link.FeedbackID, link.StaffID}
			if _, ok := s.staffLinks[key]; ok {
				return models.StaffLink{}, models.ErrDuplicateKey
			}
			s.staffLinks[key] = link
			return link, nil
		},
		UpdateStaffLinkEmotionFunc: func(ctx context.Context, feedbackID, staffID string, emotion sql.NullString) (models.StaffLink, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			key := [2]string{feedbackID, staffID}
			link, ok := s.staffLinks[key]
			if !ok {
				return models.StaffLink{}, models.ErrNotFound
			}
			if emotion.Valid {
				link.Emotion = emotion
			}
			s.staffLinks[key] = link
			return link, nil
		},
		CreateReasonLinkFunc: func(ctx context.Context, link models.ReasonLink) (models.ReasonLink, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.reasonLinks = append(s.reasonLinks, link)
			return link, nil
		},
		CreateReasonLinkIfAbsentFunc: func(ctx context.Context, link models.ReasonLink) (models.ReasonLink, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			for _, l := range s.reasonLinks {
				if l.FeedbackID == link.FeedbackID && l.ReasonID == link.ReasonID {
					return l, nil
				}
			}
			s.reasonLinks = append(s.reasonLinks, link)
			return link, nil
		},
		ListStaffLinksFunc: func(ctx context.Context, feedbackID string) ([]models.StaffLink, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			var out []models.StaffLink
			for _, l := range s.staffLinks {
				if l.FeedbackID == feedbackID {
					out = append(out, l)
				}
			}
			return out, nil
		},
		ListReasonLinksFunc: func(ctx context.Context, feedbackID string) ([]models.ReasonLink, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			var out []models.ReasonLink
			for _, l := range s.reasonLinks {
				if l.FeedbackID == feedbackID {
					out = append(out, l)
				}
			}
			return out, nil
		},
	}
	return s, repo
}

func (s *memoryStore) reasonLinksFor(feedbackID string) []models.ReasonLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ReasonLink
	for _, l := range s.reasonLinks {
		if l.FeedbackID == feedbackID {
			out = append(out, l)
		}
	}
	return out
}

func knownCatalog() *mocks.MockCatalogRepository {
	return &mocks.MockCatalogRepository{
		FindStaffFunc: func(ctx context.Context, id string) (models.Staff, error) {
			switch id {
			case "S1", "S2":
				return models.Staff{ID: id, Name: "Staff " + id, Active: true}, nil
			case "S-retired":
				return models.Staff{ID: id, Name: "Retired", Active: false}, nil
			}
			return models.Staff{}, models.ErrNotFound
		},
		FindReasonFunc: func(ctx context.Context, id string) (models.Reason, error) {
			switch id {
			case "D1", "D2":
				return models.Reason{ID: id, Description: "Reason " + id, Active: true}, nil
			}
			return models.Reason{}, models.ErrNotFound
		},
	}
}

func newTestAssembler(repo FeedbackRepository, policy ReasonLinkPolicy) *FeedbackAssembler {
	a := NewFeedbackAssembler(repo, knownCatalog(), policy, zap.NewNop())
	var mu sync.Mutex
	n := 0
	a.newID = func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("link-%d", n)
	}
	return a
}

func TestNewFeedbackAssembler(t *testing.T) {
	t.Run("nil repositories panic", func(t *testing.T) {
		assert.Panics(t, func() {
			NewFeedbackAssembler(nil, knownCatalog(), ReasonLinksAllow, zap.NewNop())
		})
		assert.Panics(t, func() {
			NewFeedbackAssembler(&mocks.MockFeedbackRepository{}, nil, ReasonLinksAllow, zap.NewNop())
		})
	})

	t.Run("defaults", func(t *testing.T) {
		a := NewFeedbackAssembler(&mocks.MockFeedbackRepository{}, knownCatalog(), "", nil)
		assert.Equal(t, ReasonLinksAllow, a.policy)
		assert.NotNil(t, a.logger)
		assert.NotEmpty(t, a.newID())
	})
}

func TestParseReasonLinkPolicy(t *testing.T) {
	p, err := ParseReasonLinkPolicy("DEDUPE")
	require.NoError(t, err)
	assert.Equal(t, ReasonLinksDedupe, p)

	p, err = ParseReasonLinkPolicy("")
	require.NoError(t, err)
	assert.Equal(t, ReasonLinksAllow, p)

	_, err = ParseReasonLinkPolicy("merge")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEnsureFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects invalid input before touching the store", func(t *testing.T) {
		a := newTestAssembler(&mocks.MockFeedbackRepository{}, ReasonLinksAllow)

		_, err := a.EnsureFeedback(ctx, "  ", RatingGood, "")
		assert.ErrorIs(t, err, ErrValidation)

		_, err = a.EnsureFeedback(ctx, "F1", OverallRating("MEH"), "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("creates a missing record", func(t *testing.T) {
		store, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksAllow)

		rec, err := a.EnsureFeedback(ctx, "F1", RatingNotSatisfied, "slow checkout")
		require.NoError(t, err)
		assert.Equal(t, "F1", rec.ID)
		assert.Equal(t, RatingNotSatisfied, rec.Rating)
		assert.Equal(t, "slow checkout", rec.Comment)
		assert.Len(t, store.feedback, 1)
	})

	t.Run("returns the existing record on conflict", func(t *testing.T) {
		store, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksAllow)

		first, err := a.EnsureFeedback(ctx, "F1", RatingGood, "")
		require.NoError(t, err)
		second, err := a.EnsureFeedback(ctx, "F1", RatingNotSatisfied, "")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, RatingGood, second.Rating)
		assert.Len(t, store.feedback, 1)
	})

	t.Run("concurrent callers observe one record", func(t *testing.T) {
		store, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksAllow)

		const callers = 16
		results := make([]FeedbackRecord, callers)
		errs := make([]error, callers)
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = a.EnsureFeedback(ctx, "F-race", RatingGood, "")
			}(i)
		}
		wg.Wait()

		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, results[0], results[i])
		}
		assert.Equal(t, 1, store.creates)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := &mocks.MockFeedbackRepository{
			CreateFeedbackFunc: func(ctx context.Context, f models.Feedback) (models.Feedback, error) {
				return models.Feedback{}, errors.New("disk I/O error")
			},
		}
		a := newTestAssembler(repo, ReasonLinksAllow)

		_, err := a.EnsureFeedback(ctx, "F1", RatingGood, "")
		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.Contains(t, err.Error(), "disk I/O error")
	})

	t.Run("conflict then lookup failure is a storage failure", func(t *testing.T) {
		repo := &mocks.MockFeedbackRepository{
			CreateFeedbackFunc: func(ctx context.Context, f models.Feedback) (models.Feedback, error) {
				return models.Feedback{}, models.ErrDuplicateKey
			},
			FindFeedbackFunc: func(ctx context.Context, id string) (models.Feedback, error) {
				return models.Feedback{}, errors.New("connection reset")
			},
		}
		a := newTestAssembler(repo, ReasonLinksAllow)

		_, err := a.EnsureFeedback(ctx, "F1", RatingGood, "")
		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}

func TestAttachStaff(t *testing.T) {
	ctx := context.Background()

	t.Run("creates feedback as GOOD then updates the emotion", func(t *testing.T) {
		store, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksAllow)

		first, err := a.AttachStaff(ctx, "F1", "S1", "")
		require.NoError(t, err)
		assert.Equal(t, Emotion(""), first.Emotion)

		second, err := a.AttachStaff(ctx, "F1", "S1", "heart")
		require.NoError(t, err)
		assert.Equal(t, EmotionHeart, second.Emotion)
		assert.Equal(t, first.ID, second.ID)

		require.Len(t, store.staffLinks, 1)
		assert.Equal(t, RatingGood, OverallRating(store.feedback["F1"].OverallRating))
	})

	t.Run("last emotion wins", func(t *testing.T) {
		store, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksAllow)

		_, err := a.AttachStaff(ctx, "F1", "S1", "LIKE")
		require.NoError(t, err)
		_, err = a.AttachStaff(ctx, "F1", "S1", "ANGRY")
		require.NoError(t, err)

		require.Len(t, store.staffLinks, 1)
		assert.Equal(t, "ANGRY", store.staffLinks[[2]string{"F1", "S1"}].Emotion.String)
	})

	t.Run("empty emotion keeps the stored one", func(t *testing.T) {
		store, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksAllow)

		_, err := a.AttachStaff(ctx, "F1", "S1", "WOW")
		require.NoError(t, err)
		link, err := a.AttachStaff(ctx, "F1", "S1", "")
		require.NoError(t, err)

		assert.Equal(t, EmotionWow, link.Emotion)
		assert.Len(t, store.staffLinks, 1)
	})

	t.Run("does not change an existing NOT_SATISFIED rating", func(t *testing.T) {
		store, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksAllow)

		_, err := a.AttachReason(ctx, "F1", "D1")
		require.NoError(t, err)
		_, err = a.AttachStaff(ctx, "F1", "S1", "")
		require.NoError(t, err)

		assert.Equal(t, string(RatingNotSatisfied), store.feedback["F1"].OverallRating)
	})

	t.Run("inactive staff can still be linked", func(t *testing.T) {
		_, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksAllow)

		_, err := a.AttachStaff(ctx, "F1", "S-retired", "")
		assert.NoError(t, err)
	})

	t.Run("validation", func(t *testing.T) {
		store, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksAllow)

		_, err := a.AttachStaff(ctx, "", "S1", "")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = a.AttachStaff(ctx, "F1", "", "")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = a.AttachStaff(ctx, "F1", "S1", "MEH")
		assert.ErrorIs(t, err, ErrValidation)

		assert.Empty(t, store.feedback)
	})

	t.Run("unknown staff leaves no orphan feedback", func(t *testing.T) {
		store, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksAllow)

		_, err := a.AttachStaff(ctx, "F1", "S404", "")
		assert.ErrorIs(t, err, ErrReference)
		assert.Empty(t, store.feedback)
	})

	t.Run("link update failure is a storage failure", func(t *testing.T) {
		_, repo := newMemoryStore()
		repo.CreateStaffLinkFunc = func(ctx context.Context, link models.StaffLink) (models.StaffLink, error) {
			return models.StaffLink{}, models.ErrDuplicateKey
		}
		repo.UpdateStaffLinkEmotionFunc = func(ctx context.Context, feedbackID, staffID string, emotion sql.NullString) (models.StaffLink, error) {
			return models.StaffLink{}, errors.New("database is locked")
		}
		a := newTestAssembler(repo, ReasonLinksAllow)

		_, err := a.AttachStaff(ctx, "F1", "S1", "HEART")
		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}

func TestAttachReason(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing feedback as NOT_SATISFIED", func(t *testing.T) {
		store, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksAllow)

		link, err := a.AttachReason(ctx, "F2", "D1")
		require.NoError(t, err)
		assert.Equal(t, "F2", link.FeedbackID)
		assert.Equal(t, "D1", link.ReasonID)

		assert.Equal(t, string(RatingNotSatisfied), store.feedback["F2"].OverallRating)
		assert.Len(t, store.reasonLinksFor("F2"), 1)
	})

	t.Run("different reasons give distinct links", func(t *testing.T) {
		store, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksAllow)

		l1, err := a.AttachReason(ctx, "F3", "D1")
		require.NoError(t, err)
		l2, err := a.AttachReason(ctx, "F3", "D2")
		require.NoError(t, err)

		assert.NotEqual(t, l1.ID, l2.ID)
		assert.Len(t, store.reasonLinksFor("F3"), 2)
		assert.Len(t, store.feedback, 1)
	})

	t.Run("allow policy keeps repeated citations", func(t *testing.T) {
		store, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksAllow)

		_, err := a.AttachReason(ctx, "F4", "D1")
		require.NoError(t, err)
		_, err = a.AttachReason(ctx, "F4", "D1")
		require.NoError(t, err)

		assert.Len(t, store.reasonLinksFor("F4"), 2)
	})

	t.Run("dedupe policy keeps one citation", func(t *testing.T) {
		store, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksDedupe)

		first, err := a.AttachReason(ctx, "F5", "D1")
		require.NoError(t, err)
		second, err := a.AttachReason(ctx, "F5", "D1")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, store.reasonLinksFor("F5"), 1)
	})

	t.Run("unknown reason", func(t *testing.T) {
		store, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksAllow)

		_, err := a.AttachReason(ctx, "F6", "D404")
		assert.ErrorIs(t, err, ErrReference)
		assert.Empty(t, store.feedback)
	})

	t.Run("validation", func(t *testing.T) {
		_, repo := newMemoryStore()
		a := newTestAssembler(repo, ReasonLinksAllow)

		_, err := a.AttachReason(ctx, "", "D1")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = a.AttachReason(ctx, "F6", " ")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("catalog failure", func(t *testing.T) {
		_, repo := newMemoryStore()
		catalog := &mocks.MockCatalogRepository{
			FindReasonFunc: func(ctx context.Context, id string) (models.Reason, error) {
				return models.Reason{}, errors.New("no such table")
			},
		}
		a := NewFeedbackAssembler(repo, catalog, ReasonLinksAllow, zap.NewNop())

		_, err := a.AttachReason(ctx, "F7", "D1")
		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}

func TestFeedbackDetail(t *testing.T) {
	ctx := context.Background()
	_, repo := newMemoryStore()
	a := newTestAssembler(repo, ReasonLinksAllow)

	_, err := a.AttachReason(ctx, "F8", "D1")
	require.NoError(t, err)
	_, err = a.AttachStaff(ctx, "F8", "S2", "LIKE")
	require.NoError(t, err)

	detail, err := a.Feedback(ctx, "F8")
	require.NoError(t, err)
	assert.Equal(t, RatingNotSatisfied, detail.Rating)
	assert.Len(t, detail.Staff, 1)
	assert.Len(t, detail.Reasons, 1)

	_, err = a.Feedback(ctx, "missing")
	assert.ErrorIs(t, err, ErrReference)
}
