// Package memory provides in-memory implementations of the repository interfaces
// with the same constraint behavior as the Postgres schema (unique usernames and
// emails, foreign keys, cascading deletes). It backs service and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/waterworks/water-service/internal/domain"
	"github.com/waterworks/water-service/internal/repository"
)

// Store holds all records behind one lock.
type Store struct {
	mu           sync.RWMutex
	users        map[int64]domain.User
	applications map[int64]domain.Application
	complaints   map[int64]domain.Complaint
	nextID       int64
	clock        time.Time

	// Err, when set, is returned by every operation.
	Err error
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:        make(map[int64]domain.User),
		applications: make(map[int64]domain.Application),
		complaints:   make(map[int64]domain.Complaint),
		clock:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

// Users returns the user repository view.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Applications returns the application repository view.
func (s *Store) Applications() repository.ApplicationRepository { return applicationRepo{s} }

// Complaints returns the complaint repository view.
func (s *Store) Complaints() repository.ComplaintRepository { return complaintRepo{s} }

// CountComplaints reports how many complaints are stored.
func (s *Store) CountComplaints() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.complaints)
}

// CountUsers reports how many users are stored.
func (s *Store) CountUsers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// SetApplicationStatus changes a status directly, as an operator would.
func (s *Store) SetApplicationStatus(id int64, status domain.ApplicationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if app, ok := s.applications[id]; ok {
		app.Status = status
		s.applications[id] = app
	}
}

// tick returns a strictly increasing timestamp; callers hold the write lock.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return repository.ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	user.ID = s.id()
	user.CreatedAt = s.tick()
	s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r userRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (r userRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return false, s.Err
	}
	for _, user := range s.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r userRepo) List(_ context.Context) ([]domain.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r userRepo) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.users, id)
	for appID, app := range s.applications {
		if app.UserID == id {
			s.deleteApplicationLocked(appID)
		}
	}
	for cID, c := range s.complaints {
		if c.UserID == id {
			delete(s.complaints, cID)
		}
	}
	return nil
}

func (s *Store) deleteApplicationLocked(id int64) {
	delete(s.applications, id)
	for cID, c := range s.complaints {
		if c.ApplicationID == id {
			delete(s.complaints, cID)
		}
	}
}

type applicationRepo struct{ s *Store }

func (r applicationRepo) Create(_ context.Context, app *domain.Application) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.users[app.UserID]; !ok {
		return repository.ErrMissingReference
	}
	if app.Status == "" {
		app.Status = domain.ApplicationStatusPending
	}
	app.ID = s.id()
	app.ApplicationDate = s.tick()
	s.applications[app.ID] = *app
	return nil
}

func (r applicationRepo) GetByID(_ context.Context, id int64) (*domain.Application, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	app, ok := s.applications[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	app.Username = s.users[app.UserID].Username
	return &app, nil
}

func (r applicationRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Application, error) {
	return r.ListWithFilter(ctx, repository.ApplicationFilter{UserID: &userID})
}

func (r applicationRepo) ListWithFilter(_ context.Context, filter repository.ApplicationFilter) ([]domain.Application, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []domain.Application
	for _, app := range s.applications {
		if filter.UserID != nil && app.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && app.Status != *filter.Status {
			continue
		}
		app.Username = s.users[app.UserID].Username
		result = append(result, app)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ApplicationDate.Equal(result[j].ApplicationDate) {
			return result[i].ApplicationDate.After(result[j].ApplicationDate)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r applicationRepo) CountByStatus(_ context.Context, userID int64, status domain.ApplicationStatus) (int64, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var count int64
	for _, app := range s.applications {
		if app.UserID == userID && app.Status == status {
			count++
		}
	}
	return count, nil
}

func (r applicationRepo) UpdateStatus(_ context.Context, id int64, status domain.ApplicationStatus) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	app, ok := s.applications[id]
	if !ok {
		return pgx.ErrNoRows
	}
	app.Status = status
	s.applications[id] = app
	return nil
}

func (r applicationRepo) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.applications[id]; !ok {
		return pgx.ErrNoRows
	}
	s.deleteApplicationLocked(id)
	return nil
}

type complaintRepo struct{ s *Store }

func (r complaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.users[complaint.UserID]; !ok {
		return repository.ErrMissingReference
	}
	if _, ok := s.applications[complaint.ApplicationID]; !ok {
		return repository.ErrMissingReference
	}
	complaint.ID = s.id()
	complaint.SubmittedAt = s.tick()
	complaint.Response = nil
	complaint.RespondedAt = nil
	s.complaints[complaint.ID] = *complaint
	return nil
}

func (r complaintRepo) GetByID(_ context.Context, id int64) (*domain.Complaint, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	complaint, ok := s.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	complaint.ApplicationStatus = s.applications[complaint.ApplicationID].Status
	return &complaint, nil
}

func (r complaintRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Complaint, error) {
	return r.ListWithFilter(ctx, repository.ComplaintFilter{UserID: &userID})
}

func (r complaintRepo) ListWithFilter(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []domain.Complaint
	for _, complaint := range s.complaints {
		if filter.UserID != nil && complaint.UserID != *filter.UserID {
			continue
		}
		if filter.ApplicationID != nil && complaint.ApplicationID != *filter.ApplicationID {
			continue
		}
		if filter.Answered != nil && complaint.Answered() != *filter.Answered {
			continue
		}
		complaint.ApplicationStatus = s.applications[complaint.ApplicationID].Status
		result = append(result, complaint)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].SubmittedAt.Equal(result[j].SubmittedAt) {
			return result[i].SubmittedAt.After(result[j].SubmittedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r complaintRepo) Respond(_ context.Context, complaint *domain.Complaint, response string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	stored, ok := s.complaints[complaint.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	at := s.tick()
	stored.Response = &response
	stored.RespondedAt = &at
	s.complaints[complaint.ID] = stored
	complaint.Response = stored.Response
	complaint.RespondedAt = stored.RespondedAt
	return nil
}

func (r complaintRepo) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.complaints[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.complaints, id)
	return nil
}
