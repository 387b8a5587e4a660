package tasks

import (
	"context"

	"github.com/google/uuid"

	"github.com/vimalpatra/todo-backend/docstore"
)

const (
	listCollection = "lists"
	taskCollection = "tasks"
)

// List is a named collection of tasks belonging to one user.
type List struct {
	ID      string `json:"_id"`
	Title   string `json:"title"`
	OwnerID string `json:"_userId"`
}

// Task is a single to-do item inside a list.
type Task struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	ListID    string `json:"_listId"`
	Completed bool   `json:"completed"`
}

// Resolution reports how an ownership lookup ended.
type Resolution int

const (
	// Found means the document exists and belongs to the caller.
	Found Resolution = iota
	// NotFound covers both a missing document and one owned by somebody
	// else; callers must not be able to tell the two apart.
	NotFound
)

// Repository stores lists and tasks in the engine's document store.
type Repository struct {
	lists *docstore.Collection
	tasks *docstore.Collection
}

// NewRepository creates a Repository on the given store.
func NewRepository(store *docstore.Store) *Repository {
	return &Repository{
		lists: store.Collection(listCollection),
		tasks: store.Collection(taskCollection),
	}
}

// ListsForOwner returns every list owned by ownerID, sorted by id. The slice
// is empty, never nil, when the owner has no lists.
func (r *Repository) ListsForOwner(ctx context.Context, ownerID string) ([]List, error) {
	lists := []List{}
	err := r.lists.FindMany(ctx, docstore.Filter{"_userId": ownerID}, &lists)
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// CreateList stores a new list titled title for ownerID.
func (r *Repository) CreateList(ctx context.Context, ownerID, title string) (*List, error) {
	list := &List{
		ID:      uuid.NewString(),
		Title:   title,
		OwnerID: ownerID,
	}
	if err := r.lists.Save(ctx, list.ID, list); err != nil {
		return nil, err
	}
	return list, nil
}

// ResolveOwnedList fetches listID if it belongs to ownerID. A list owned by
// another user resolves as NotFound.
func (r *Repository) ResolveOwnedList(ctx context.Context, ownerID, listID string) (*List, Resolution, error) {
	var list List
	found, err := r.lists.FindOne(ctx, docstore.Filter{"_id": listID, "_userId": ownerID}, &list)
	if err != nil {
		return nil, NotFound, err
	}
	if !found {
		return nil, NotFound, nil
	}
	return &list, Found, nil
}

// UpdateList retitles an owned list.
func (r *Repository) UpdateList(ctx context.Context, ownerID, listID, title string) (Resolution, error) {
	updated, err := r.lists.UpdateOne(ctx,
		docstore.Filter{"_id": listID, "_userId": ownerID},
		docstore.Filter{"title": title},
	)
	if err != nil {
		return NotFound, err
	}
	if !updated {
		return NotFound, nil
	}
	return Found, nil
}

// DeleteList removes an owned list and cascades to every task in it.
func (r *Repository) DeleteList(ctx context.Context, ownerID, listID string) (Resolution, error) {
	deleted, err := r.lists.DeleteOne(ctx, docstore.Filter{"_id": listID, "_userId": ownerID}, nil)
	if err != nil {
		return NotFound, err
	}
	if !deleted {
		return NotFound, nil
	}
	// Orphaned tasks are unreachable through the API, so the cascade is
	// cleanup, not access control.
	if _, err := r.tasks.DeleteMany(ctx, docstore.Filter{"_listId": listID}); err != nil {
		return Found, err
	}
	return Found, nil
}

// TasksForList returns every task in the list, sorted by id.
func (r *Repository) TasksForList(ctx context.Context, listID string) ([]Task, error) {
	tasks := []Task{}
	err := r.tasks.FindMany(ctx, docstore.Filter{"_listId": listID}, &tasks)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask stores a new task under listID. Ownership of the list must
// already have been resolved by the caller.
func (r *Repository) CreateTask(ctx context.Context, listID, title string) (*Task, error) {
	task := &Task{
		ID:     uuid.NewString(),
		Title:  title,
		ListID: listID,
	}
	if err := r.tasks.Save(ctx, task.ID, task); err != nil {
		return nil, err
	}
	return task, nil
}

// FindTask fetches one task scoped to its list.
func (r *Repository) FindTask(ctx context.Context, listID, taskID string) (*Task, Resolution, error) {
	var task Task
	found, err := r.tasks.FindOne(ctx, docstore.Filter{"_id": taskID, "_listId": listID}, &task)
	if err != nil {
		return nil, NotFound, err
	}
	if !found {
		return nil, NotFound, nil
	}
	return &task, Found, nil
}

// UpdateTask patches the title and/or completed flag of a task scoped to its
// list. Nil fields are left unchanged.
func (r *Repository) UpdateTask(ctx context.Context, listID, taskID string, title *string, completed *bool) (Resolution, error) {
	patch := docstore.Filter{}
	if title != nil {
		patch["title"] = *title
	}
	if completed != nil {
		patch["completed"] = *completed
	}
	if len(patch) == 0 {
		_, res, err := r.FindTask(ctx, listID, taskID)
		return res, err
	}

	updated, err := r.tasks.UpdateOne(ctx, docstore.Filter{"_id": taskID, "_listId": listID}, patch)
	if err != nil {
		return NotFound, err
	}
	if !updated {
		return NotFound, nil
	}
	return Found, nil
}

// DeleteTask removes a task scoped to its list.
func (r *Repository) DeleteTask(ctx context.Context, listID, taskID string) (Resolution, error) {
	deleted, err := r.tasks.DeleteOne(ctx, docstore.Filter{"_id": taskID, "_listId": listID}, nil)
	if err != nil {
		return NotFound, err
	}
	if !deleted {
		return NotFound, nil
	}
	return Found, nil
}
