package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/apperr"
	"taskboard/internal/domain"
	"taskboard/internal/service"
	"taskboard/testutil"
)

func newService(store service.TaskStore) *service.TaskService {
	return service.NewTaskService(store, 10)
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestCreateDefaultsCompleted(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newService(store)

	created, err := svc.Create(context.Background(), "user_a", service.CreateTaskInput{Title: "Buy Milk"})
	require.NoError(t, err)
	assert.True(t, created.Completed, "tasks default to completed")
	assert.Equal(t, "user_a", created.UserID)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	created, err = svc.Create(context.Background(), "user_a", service.CreateTaskInput{
		Title:     "Walk dog",
		Completed: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, created.Completed)
}

func TestCreateRequiresSubject(t *testing.T) {
	svc := newService(testutil.NewMemStore())

	_, err := svc.Create(context.Background(), "", service.CreateTaskInput{Title: "x"})
	require.Error(t, err)
	ae := apperr.From(err)
	assert.Equal(t, apperr.CodeUnauthenticated, ae.Code)
}

func TestCreateGetRoundTrip(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newService(store)

	created, err := svc.Create(context.Background(), "user_a", service.CreateTaskInput{
		Title:       "X",
		Description: strPtr("Y"),
		Completed:   boolPtr(false),
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "user_a", created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "X", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Y", *got.Description)
	assert.False(t, got.Completed)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "user_a", got.UserID)
}

func TestListPaginationScenario(t *testing.T) {
	// 15 tasks, page 2 of limit 5: full page, three pages total.
	store := testutil.NewMemStore()
	svc := newService(store)

	for i := 0; i < 15; i++ {
		_, err := svc.Create(context.Background(), "user_a", service.CreateTaskInput{
			Title: fmt.Sprintf("task %d", i),
		})
		require.NoError(t, err)
	}

	page, err := svc.List(context.Background(), "user_a", service.ListTasksInput{Page: 2, Limit: 5})
	require.NoError(t, err)

	assert.Len(t, page.Tasks, 5)
	assert.Equal(t, domain.Pagination{
		Page: 2, Limit: 5, Total: 15, TotalPages: 3, HasNext: true, HasPrev: true,
	}, page.Pagination)
}

func TestListEmptyResult(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newService(store)

	// everything completed; pending filter must match nothing
	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), "user_a", service.CreateTaskInput{Title: "done"})
		require.NoError(t, err)
	}

	page, err := svc.List(context.Background(), "user_a", service.ListTasksInput{Filter: "pending"})
	require.NoError(t, err)

	assert.NotNil(t, page.Tasks)
	assert.Empty(t, page.Tasks)
	assert.Equal(t, domain.Pagination{
		Page: 1, Limit: 10, Total: 0, TotalPages: 0, HasNext: false, HasPrev: false,
	}, page.Pagination)
}

func TestListFilters(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newService(store)

	_, err := svc.Create(context.Background(), "user_a", service.CreateTaskInput{Title: "Buy Milk", Completed: boolPtr(false)})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "user_a", service.CreateTaskInput{Title: "Read book", Completed: boolPtr(true)})
	require.NoError(t, err)

	// case-insensitive substring search
	for _, text := range []string{"milk", "MILK", "  milk  "} {
		page, err := svc.List(context.Background(), "user_a", service.ListTasksInput{Text: text})
		require.NoError(t, err)
		require.Len(t, page.Tasks, 1, "text %q", text)
		assert.Equal(t, "Buy Milk", page.Tasks[0].Title)
	}

	// blank text is treated as absent
	page, err := svc.List(context.Background(), "user_a", service.ListTasksInput{Text: "   "})
	require.NoError(t, err)
	assert.Len(t, page.Tasks, 2)

	// completion filter and text filter compose
	page, err = svc.List(context.Background(), "user_a", service.ListTasksInput{Text: "milk", Filter: "done"})
	require.NoError(t, err)
	assert.Empty(t, page.Tasks)

	page, err = svc.List(context.Background(), "user_a", service.ListTasksInput{Filter: "pending"})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "Buy Milk", page.Tasks[0].Title)
}

func TestListRejectsUnknownFilter(t *testing.T) {
	svc := newService(testutil.NewMemStore())

	_, err := svc.List(context.Background(), "user_a", service.ListTasksInput{Filter: "finished"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.From(err).Code)
}

func TestListClampsPage(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newService(store)

	_, err := svc.Create(context.Background(), "user_a", service.CreateTaskInput{Title: "only"})
	require.NoError(t, err)

	page, err := svc.List(context.Background(), "user_a", service.ListTasksInput{Page: -3, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 10, page.Pagination.Limit)
	assert.Len(t, page.Tasks, 1)
}

func TestListOrdering(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newService(store)

	base := time.Now().Truncate(time.Second)
	store.Seed(&domain.Task{Title: "oldest", UserID: "user_a", CreatedAt: base.Add(-2 * time.Hour)})
	store.Seed(&domain.Task{Title: "tie-low-id", UserID: "user_a", CreatedAt: base})
	store.Seed(&domain.Task{Title: "tie-high-id", UserID: "user_a", CreatedAt: base})
	store.Seed(&domain.Task{Title: "middle", UserID: "user_a", CreatedAt: base.Add(-time.Hour)})

	page, err := svc.List(context.Background(), "user_a", service.ListTasksInput{})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 4)

	var titles []string
	for _, task := range page.Tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"tie-low-id", "tie-high-id", "middle", "oldest"}, titles)
}

func TestOwnershipScoping(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newService(store)

	created, err := svc.Create(context.Background(), "user_a", service.CreateTaskInput{Title: "mine"})
	require.NoError(t, err)

	// user_b can neither see nor touch user_a's task
	page, err := svc.List(context.Background(), "user_b", service.ListTasksInput{})
	require.NoError(t, err)
	assert.Empty(t, page.Tasks)

	got, err := svc.Get(context.Background(), "user_b", created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	updated, err := svc.Update(context.Background(), "user_b", created.ID, domain.TaskPatch{Title: strPtr("stolen")})
	require.NoError(t, err)
	assert.Nil(t, updated)

	toggled, err := svc.Toggle(context.Background(), "user_b", created.ID)
	require.NoError(t, err)
	assert.Nil(t, toggled)

	deleted, err := svc.Delete(context.Background(), "user_b", created.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	// still intact for the owner
	got, err = svc.Get(context.Background(), "user_a", created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "mine", got.Title)
}

func TestTogglePureNegation(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newService(store)

	created, err := svc.Create(context.Background(), "user_a", service.CreateTaskInput{
		Title: "flip me", Completed: boolPtr(false),
	})
	require.NoError(t, err)

	toggled, err := svc.Toggle(context.Background(), "user_a", created.ID)
	require.NoError(t, err)
	require.NotNil(t, toggled)
	assert.True(t, toggled.Completed)

	toggled, err = svc.Toggle(context.Background(), "user_a", created.ID)
	require.NoError(t, err)
	require.NotNil(t, toggled)
	assert.False(t, toggled.Completed)
}

func TestDeleteIdempotent(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newService(store)

	created, err := svc.Create(context.Background(), "user_a", service.CreateTaskInput{Title: "bye"})
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), "user_a", created.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, created.ID, deleted.ID)

	deleted, err = svc.Delete(context.Background(), "user_a", created.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted, "second delete yields null data, not an error")
}

func TestUpdatePartialPatch(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newService(store)

	created, err := svc.Create(context.Background(), "user_a", service.CreateTaskInput{
		Title:       "original",
		Description: strPtr("desc"),
		Completed:   boolPtr(false),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "user_a", created.ID, domain.TaskPatch{
		Title: strPtr("renamed"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "renamed", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "desc", *updated.Description, "unsupplied fields keep their values")
	assert.False(t, updated.Completed)
}

func TestStoreErrorsPropagateUnchanged(t *testing.T) {
	store := testutil.NewMemStore()
	store.Err = apperr.New(apperr.CodeUnavailable, "database temporarily unavailable")
	svc := newService(store)

	_, err := svc.List(context.Background(), "user_a", service.ListTasksInput{})
	require.Error(t, err)
	ae := apperr.From(err)
	assert.Equal(t, apperr.CodeUnavailable, ae.Code)
	assert.Equal(t, "database temporarily unavailable", ae.Message)
}
