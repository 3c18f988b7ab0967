package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"actividad-api/domain"
)

// Store keeps people, projects and tasks in memory, in insertion order.
// Every method holds the store lock for its whole lookup-validate-mutate
// sequence, so id assignment and foreign key checks are atomic.
type Store struct {
	mu       sync.RWMutex
	people   []domain.Person
	projects []domain.Project
	tasks    []domain.Task

	nextPersonID  int
	nextProjectID int
	nextTaskID    int

	version atomic.Uint64
	now     func() time.Time
}

// New creates a Store holding one seed record per collection.
func New() *Store {
	s := newEmpty(time.Now)
	s.seed()
	return s
}

func newEmpty(now func() time.Time) *Store {
	return &Store{
		nextPersonID:  1,
		nextProjectID: 1,
		nextTaskID:    1,
		now:           now,
	}
}

func (s *Store) seed() {
	person := domain.NewPerson{Name: "Jonathan Rosas", Email: "jonathan@example.com", Role: "admin"}.Build(s.nextPersonID)
	s.nextPersonID++
	s.people = append(s.people, person)

	project := domain.NewProject{Name: "Mint", Description: "Dental app", PersonID: domain.Some(person.ID)}.Build(s.nextProjectID, s.now())
	s.nextProjectID++
	s.projects = append(s.projects, project)

	task := domain.NewTask{Title: "Design UI", Description: "Main screen", ProjectID: domain.Some(project.ID)}.Build(s.nextTaskID)
	s.nextTaskID++
	s.tasks = append(s.tasks, task)
}

// Version increases on every committed mutation.
func (s *Store) Version() uint64 {
	return s.version.Load()
}

func (s *Store) committed() {
	s.version.Add(1)
}

func (s *Store) personIndex(id int) int {
	for i := range s.people {
		if s.people[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) projectIndex(id int) int {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) taskIndex(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// checkPersonRef validates an owner reference. Absent and null always pass.
func (s *Store) checkPersonRef(ref domain.Optional[int]) error {
	id, ok := ref.Get()
	if !ok || s.personIndex(id) >= 0 {
		return nil
	}
	return &domain.ReferenceError{Entity: domain.EntityPerson, ID: id}
}

func (s *Store) checkProjectRef(ref domain.Optional[int]) error {
	id, ok := ref.Get()
	if !ok || s.projectIndex(id) >= 0 {
		return nil
	}
	return &domain.ReferenceError{Entity: domain.EntityProject, ID: id}
}

func (s *Store) tasksOf(projectID int) []domain.Task {
	out := []domain.Task{}
	for _, t := range s.tasks {
		if t.ProjectID != nil && *t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) personRef(id *int) *domain.Person {
	if id == nil {
		return nil
	}
	if i := s.personIndex(*id); i >= 0 {
		p := s.people[i]
		return &p
	}
	return nil
}

func (s *Store) projectRef(id *int) *domain.Project {
	if id == nil {
		return nil
	}
	if i := s.projectIndex(*id); i >= 0 {
		p := s.projects[i]
		return &p
	}
	return nil
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// ListPeople returns every person in insertion order.
func (s *Store) ListPeople(ctx context.Context) ([]domain.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.people), nil
}

// GetPerson returns the person with its projects, each joined with its tasks.
func (s *Store) GetPerson(ctx context.Context, id int) (domain.PersonWithProjects, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.personIndex(id)
	if i < 0 {
		return domain.PersonWithProjects{}, domain.NotFound(domain.EntityPerson, id)
	}
	view := domain.PersonWithProjects{Person: s.people[i], Projects: []domain.ProjectWithTasks{}}
	for _, p := range s.projects {
		if p.PersonID != nil && *p.PersonID == id {
			view.Projects = append(view.Projects, domain.ProjectWithTasks{Project: p, Tasks: s.tasksOf(p.ID)})
		}
	}
	return view, nil
}

// CreatePerson appends a new person.
func (s *Store) CreatePerson(ctx context.Context, in domain.NewPerson) (domain.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := in.Build(s.nextPersonID)
	s.nextPersonID++
	s.people = append(s.people, p)
	s.committed()
	return p, nil
}

// UpdatePerson applies patch to the person and returns the result.
func (s *Store) UpdatePerson(ctx context.Context, id int, patch domain.PersonPatch) (domain.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.personIndex(id)
	if i < 0 {
		return domain.Person{}, domain.NotFound(domain.EntityPerson, id)
	}
	patch.Apply(&s.people[i])
	s.committed()
	return s.people[i], nil
}

// DeletePerson removes the person. Projects keep their dangling owner id.
func (s *Store) DeletePerson(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.personIndex(id)
	if i < 0 {
		return domain.NotFound(domain.EntityPerson, id)
	}
	s.people = append(s.people[:i], s.people[i+1:]...)
	s.committed()
	return nil
}

// ListProjects returns every project in insertion order.
func (s *Store) ListProjects(ctx context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.projects), nil
}

// GetProject returns the project with its tasks and owner.
func (s *Store) GetProject(ctx context.Context, id int) (domain.ProjectDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.projectIndex(id)
	if i < 0 {
		return domain.ProjectDetails{}, domain.NotFound(domain.EntityProject, id)
	}
	p := s.projects[i]
	return domain.ProjectDetails{Project: p, Tasks: s.tasksOf(p.ID), Person: s.personRef(p.PersonID)}, nil
}

// CreateProject appends a new project after checking its owner exists.
func (s *Store) CreateProject(ctx context.Context, in domain.NewProject) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkPersonRef(in.PersonID); err != nil {
		return domain.Project{}, err
	}
	p := in.Build(s.nextProjectID, s.now())
	s.nextProjectID++
	s.projects = append(s.projects, p)
	s.committed()
	return p, nil
}

// UpdateProject applies patch to the project and returns the result.
func (s *Store) UpdateProject(ctx context.Context, id int, patch domain.ProjectPatch) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(id)
	if i < 0 {
		return domain.Project{}, domain.NotFound(domain.EntityProject, id)
	}
	if err := s.checkPersonRef(patch.PersonID); err != nil {
		return domain.Project{}, err
	}
	patch.Apply(&s.projects[i])
	s.committed()
	return s.projects[i], nil
}

// DeleteProject removes the project. Tasks keep their dangling project id.
func (s *Store) DeleteProject(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(id)
	if i < 0 {
		return domain.NotFound(domain.EntityProject, id)
	}
	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	s.committed()
	return nil
}

// ListTasks returns every task in insertion order.
func (s *Store) ListTasks(ctx context.Context) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.tasks), nil
}

// GetTask returns the task with its project and that project's owner.
func (s *Store) GetTask(ctx context.Context, id int) (domain.TaskDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.taskIndex(id)
	if i < 0 {
		return domain.TaskDetails{}, domain.NotFound(domain.EntityTask, id)
	}
	t := s.tasks[i]
	view := domain.TaskDetails{Task: t, Project: s.projectRef(t.ProjectID)}
	if view.Project != nil {
		view.Person = s.personRef(view.Project.PersonID)
	}
	return view, nil
}

// CreateTask appends a new task after checking its project exists.
func (s *Store) CreateTask(ctx context.Context, in domain.NewTask) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkProjectRef(in.ProjectID); err != nil {
		return domain.Task{}, err
	}
	t := in.Build(s.nextTaskID)
	s.nextTaskID++
	s.tasks = append(s.tasks, t)
	s.committed()
	return t, nil
}

// UpdateTask applies patch to the task and returns the result.
func (s *Store) UpdateTask(ctx context.Context, id int, patch domain.TaskPatch) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return domain.Task{}, domain.NotFound(domain.EntityTask, id)
	}
	if err := s.checkProjectRef(patch.ProjectID); err != nil {
		return domain.Task{}, err
	}
	patch.Apply(&s.tasks[i])
	s.committed()
	return s.tasks[i], nil
}

// DeleteTask removes the task.
func (s *Store) DeleteTask(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return domain.NotFound(domain.EntityTask, id)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.committed()
	return nil
}
