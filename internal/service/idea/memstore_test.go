package idea

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"kaizen-ideas/internal/domain"
)

// In-memory stores used by the scenario tests. They copy on every read and
// write so callers cannot mutate stored state through returned pointers.

type memIdeas struct {
	mu    sync.Mutex
	ideas map[uuid.UUID]domain.Idea
}

func newMemIdeas() *memIdeas {
	return &memIdeas{ideas: make(map[uuid.UUID]domain.Idea)}
}

func (m *memIdeas) Create(_ context.Context, idea *domain.Idea) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idea.CreatedAt = time.Now()
	idea.UpdatedAt = idea.CreatedAt
	m.ideas[idea.ID] = *idea
	return nil
}

func (m *memIdeas) GetByID(_ context.Context, id uuid.UUID) (*domain.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idea, ok := m.ideas[id]
	if !ok {
		return nil, nil
	}
	return &idea, nil
}

func (m *memIdeas) ListActiveBySubmitter(_ context.Context, userID uuid.UUID) ([]domain.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Idea
	for _, idea := range m.ideas {
		if idea.SubmittedBy == userID && idea.IsActive {
			out = append(out, idea)
		}
	}
	return out, nil
}

func (m *memIdeas) UpdateReview(_ context.Context, idea *domain.Idea) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ideas[idea.ID]; !ok {
		return domain.ErrIdeaNotFound
	}
	m.ideas[idea.ID] = *idea
	return nil
}

func (m *memIdeas) UpdateOwned(_ context.Context, id, ownerID uuid.UUID, in domain.UpdateIdeaInput) (*domain.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idea, ok := m.ideas[id]
	if !ok || idea.SubmittedBy != ownerID || !idea.IsActive {
		return nil, nil
	}
	if in.Title != nil {
		idea.Title = *in.Title
	}
	if in.Problem != nil {
		idea.Problem = *in.Problem
	}
	if in.Improvement != nil {
		idea.Improvement = *in.Improvement
	}
	if in.Benefit != nil {
		idea.Benefit = *in.Benefit
	}
	if in.Department != nil {
		idea.Department = *in.Department
	}
	if in.EstimatedSavings != nil {
		idea.EstimatedSavings = in.EstimatedSavings
	}
	if in.Tags != nil {
		idea.Tags = *in.Tags
	}
	m.ideas[id] = idea
	return &idea, nil
}

func (m *memIdeas) SoftDeleteOwned(_ context.Context, id, ownerID uuid.UUID) (*domain.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idea, ok := m.ideas[id]
	if !ok || idea.SubmittedBy != ownerID || !idea.IsActive {
		return nil, nil
	}
	idea.IsActive = false
	m.ideas[id] = idea
	return &idea, nil
}

func (m *memIdeas) List(_ context.Context, filter domain.IdeaFilter, _ domain.PaginationParams) ([]domain.Idea, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Idea
	for _, idea := range m.ideas {
		if !idea.IsActive {
			continue
		}
		if filter.SubmittedBy != nil && idea.SubmittedBy != *filter.SubmittedBy {
			continue
		}
		if filter.Status != nil && idea.Status != *filter.Status {
			continue
		}
		out = append(out, idea)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (m *memIdeas) Stats(context.Context) (*domain.IdeaStats, error) {
	return &domain.IdeaStats{}, nil
}

func (m *memIdeas) DepartmentLeaderboard(context.Context) ([]domain.DepartmentLeaderboardEntry, error) {
	return nil, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

func newMemUsers(users ...*domain.User) *memUsers {
	m := &memUsers{users: make(map[uuid.UUID]domain.User)}
	for _, u := range users {
		m.users[u.ID] = *u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUsers) GetByEmployeeNumber(_ context.Context, employeeNumber string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.EmployeeNumber == employeeNumber {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func (m *memUsers) Deactivate(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	u.IsActive = false
	m.users[id] = u
	return nil
}

func (m *memUsers) UpdateCreditPoints(_ context.Context, id uuid.UUID, points int) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u.CreditPoints = points
	m.users[id] = u
	return &u, nil
}

func (m *memUsers) UpdateLastLogin(context.Context, uuid.UUID) error { return nil }

func (m *memUsers) ListActiveByRoles(_ context.Context, roles []domain.UserRole) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.users {
		if u.IsActive && u.HasRole(roles...) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) ListIDs(context.Context) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memUsers) List(context.Context, domain.UserFilter, domain.PaginationParams) ([]domain.User, int64, error) {
	return nil, 0, nil
}

func (m *memUsers) Leaderboard(context.Context, int) ([]domain.LeaderboardEntry, error) {
	return nil, nil
}

func (m *memUsers) points(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id].CreditPoints
}

type memNotifications struct {
	mu     sync.Mutex
	stored []domain.Notification
}

func (m *memNotifications) Create(_ context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.CreatedAt = time.Now()
	m.stored = append(m.stored, *n)
	return nil
}

func (m *memNotifications) CreateBatch(ctx context.Context, ns []*domain.Notification) error {
	for _, n := range ns {
		if err := m.Create(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (m *memNotifications) ListByRecipient(context.Context, uuid.UUID, *bool, domain.PaginationParams) ([]domain.Notification, int64, error) {
	return nil, 0, nil
}

func (m *memNotifications) MarkAsRead(context.Context, uuid.UUID, uuid.UUID) (*domain.Notification, error) {
	return nil, nil
}

func (m *memNotifications) MarkAllAsRead(context.Context, uuid.UUID) (int64, error) { return 0, nil }

func (m *memNotifications) CountUnread(context.Context, uuid.UUID) (int64, error) { return 0, nil }

// take returns and clears the notifications stored so far.
func (m *memNotifications) take() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.stored
	m.stored = nil
	return out
}

type countingBroadcaster struct {
	mu    sync.Mutex
	count int
}

func (b *countingBroadcaster) BroadcastIdeasChanged(context.Context) {
	b.mu.Lock()
	b.count++
	b.mu.Unlock()
}

func (b *countingBroadcaster) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
