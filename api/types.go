package api

import (
	"context"

	"actividad-api/domain"
)

// Storage abstracts the entity store for handlers.
type Storage interface {
	ListPeople(ctx context.Context) ([]domain.Person, error)
	GetPerson(ctx context.Context, id int) (domain.PersonWithProjects, error)
	CreatePerson(ctx context.Context, in domain.NewPerson) (domain.Person, error)
	UpdatePerson(ctx context.Context, id int, patch domain.PersonPatch) (domain.Person, error)
	DeletePerson(ctx context.Context, id int) error

	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id int) (domain.ProjectDetails, error)
	CreateProject(ctx context.Context, in domain.NewProject) (domain.Project, error)
	UpdateProject(ctx context.Context, id int, patch domain.ProjectPatch) (domain.Project, error)
	DeleteProject(ctx context.Context, id int) error

	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, id int) (domain.TaskDetails, error)
	CreateTask(ctx context.Context, in domain.NewTask) (domain.Task, error)
	UpdateTask(ctx context.Context, id int, patch domain.TaskPatch) (domain.Task, error)
	DeleteTask(ctx context.Context, id int) error
}

// Deduper rejects repeated create requests carrying the same idempotency key.
type Deduper interface {
	// Add records the key and returns true if it was newly added.
	Add(ctx context.Context, scope, key string) (bool, error)
	// Remove deletes a previously added key, used when the create fails.
	Remove(ctx context.Context, scope, key string) error
}

// EventSink accepts change events for asynchronous delivery.
type EventSink interface {
	// Submit hands the event off and reports whether it was accepted.
	Submit(ev domain.ChangeEvent) bool
}

// EventPublisher delivers change events downstream.
type EventPublisher interface {
	PublishEvents(ctx context.Context, events []domain.ChangeEvent) error
}
