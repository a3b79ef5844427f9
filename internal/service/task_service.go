package service

import (
	"context"
	"strings"

	"taskboard/internal/apperr"
	"taskboard/internal/domain"
	"taskboard/internal/logger"
)

// TaskStore is the persistence collaborator. Lookup-style methods
// return (nil, nil) when no row owned by the caller matches.
type TaskStore interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id int64, userID string) (*domain.Task, error)
	List(ctx context.Context, q domain.TaskQuery) ([]*domain.Task, int, error)
	Update(ctx context.Context, id int64, userID string, p domain.TaskPatch) (*domain.Task, error)
	Toggle(ctx context.Context, id int64, userID string) (*domain.Task, error)
	Delete(ctx context.Context, id int64, userID string) (*domain.Task, error)
}

// TaskService implements the authenticated task operations. The caller
// identity arrives explicitly with every call; it is never read from
// ambient state.
type TaskService struct {
	store        TaskStore
	defaultLimit int
}

func NewTaskService(store TaskStore, defaultLimit int) *TaskService {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &TaskService{store: store, defaultLimit: defaultLimit}
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Completed   *bool
}

type ListTasksInput struct {
	Text   string
	Filter string
	Page   int
	Limit  int
}

func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*domain.Task, error) {
	if userID == "" {
		return nil, apperr.New(apperr.CodeUnauthenticated, "no authenticated user")
	}
	defer logger.Trace("tasks.create")()

	// New tasks default to completed. This mirrors the behavior the
	// frontend was built against; change TaskPatch callers too if this
	// default ever flips.
	completed := true
	if in.Completed != nil {
		completed = *in.Completed
	}

	t := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Completed:   completed,
		UserID:      userID,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List runs the filtered, paginated, owner-scoped read. Text is
// trimmed and matched case-insensitively as a substring; blank text is
// ignored. Filter is one of "", "all", "done", "pending". Page and
// limit below 1 are clamped to 1 and the configured default.
func (s *TaskService) List(ctx context.Context, userID string, in ListTasksInput) (*domain.TaskPage, error) {
	if userID == "" {
		return nil, apperr.New(apperr.CodeUnauthenticated, "no authenticated user")
	}
	defer logger.Trace("tasks.list")()

	var completed *bool
	switch in.Filter {
	case "", "all":
	case "done":
		v := true
		completed = &v
	case "pending":
		v := false
		completed = &v
	default:
		return nil, apperr.New(apperr.CodeInvalidArgument, "filter must be one of all, done, pending")
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = s.defaultLimit
	}

	tasks, total, err := s.store.List(ctx, domain.TaskQuery{
		UserID:    userID,
		Text:      strings.TrimSpace(in.Text),
		Completed: completed,
		Offset:    (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	totalPages := (total + limit - 1) / limit
	return &domain.TaskPage{
		Tasks: tasks,
		Pagination: domain.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// Get returns the owned task or (nil, nil); a miss is a normal
// outcome, not an error.
func (s *TaskService) Get(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	if userID == "" {
		return nil, apperr.New(apperr.CodeUnauthenticated, "no authenticated user")
	}
	defer logger.Trace("tasks.get")()
	return s.store.GetByID(ctx, id, userID)
}

func (s *TaskService) Update(ctx context.Context, userID string, id int64, p domain.TaskPatch) (*domain.Task, error) {
	if userID == "" {
		return nil, apperr.New(apperr.CodeUnauthenticated, "no authenticated user")
	}
	defer logger.Trace("tasks.update")()
	return s.store.Update(ctx, id, userID, p)
}

func (s *TaskService) Toggle(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	if userID == "" {
		return nil, apperr.New(apperr.CodeUnauthenticated, "no authenticated user")
	}
	defer logger.Trace("tasks.toggle")()
	return s.store.Toggle(ctx, id, userID)
}

func (s *TaskService) Delete(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	if userID == "" {
		return nil, apperr.New(apperr.CodeUnauthenticated, "no authenticated user")
	}
	defer logger.Trace("tasks.delete")()
	return s.store.Delete(ctx, id, userID)
}
