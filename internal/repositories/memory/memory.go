// Package memory holds in-memory implementations of the repository
// interfaces. They back unit tests and the dev mode where no MongoDB is
// configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hatif03/prepwise/internal/models"
	"github.com/hatif03/prepwise/internal/repositories"
)

type InterviewStore struct {
	mu         sync.RWMutex
	interviews map[string]models.Interview
}

func NewInterviewStore() *InterviewStore {
	return &InterviewStore{interviews: make(map[string]models.Interview)}
}

func (s *InterviewStore) GetByID(_ context.Context, id string) (*models.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	interview, ok := s.interviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &interview, nil
}

func (s *InterviewStore) ListByUser(_ context.Context, userID string) ([]models.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Interview
	for _, interview := range s.interviews {
		if interview.UserID == userID {
			out = append(out, interview)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InterviewStore) ListFinalizedAvailable(_ context.Context, excludingUserID string) ([]models.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]models.Interview, 0, len(s.interviews))
	for _, interview := range s.interviews {
		all = append(all, interview)
	}
	sortNewestFirst(all)

	// Same shape as the mongo repo: bounded fetch first, finalized filter
	// applied in memory afterwards.
	if len(all) > repositories.AvailableFetchLimit {
		all = all[:repositories.AvailableFetchLimit]
	}

	out := make([]models.Interview, 0, len(all))
	for _, interview := range all {
		if !interview.Finalized {
			continue
		}
		if excludingUserID != "" && interview.UserID == excludingUserID {
			continue
		}
		out = append(out, interview)
		if len(out) == repositories.MaxAvailable {
			break
		}
	}
	return out, nil
}

func (s *InterviewStore) Create(_ context.Context, interview *models.Interview) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if interview.ID == "" {
		interview.ID = uuid.New().String()
	}
	interview.Finalized = true
	interview.CreatedAt = time.Now().UTC()
	s.interviews[interview.ID] = *interview
	return interview.ID, nil
}

func sortNewestFirst(interviews []models.Interview) {
	sort.SliceStable(interviews, func(i, j int) bool {
		return interviews[i].CreatedAt.After(interviews[j].CreatedAt)
	})
}

type FeedbackStore struct {
	mu      sync.RWMutex
	records map[string]models.Feedback
}

func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{records: make(map[string]models.Feedback)}
}

func (s *FeedbackStore) Upsert(_ context.Context, feedback *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[feedback.ID] = *feedback
	return nil
}

func (s *FeedbackStore) GetByInterviewAndUser(_ context.Context, interviewID, userID string) (*models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var newest *models.Feedback
	for id := range s.records {
		record := s.records[id]
		if record.InterviewID != interviewID || record.UserID != userID {
			continue
		}
		if newest == nil || record.CreatedAt.After(newest.CreatedAt) {
			newest = &record
		}
	}
	if newest == nil {
		return nil, repositories.ErrNotFound
	}
	out := *newest
	return &out, nil
}

// Size reports how many feedback records are stored; used by tests.
func (s *FeedbackStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

type UserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now().UTC()
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.users {
		user := s.users[id]
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *UserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}
