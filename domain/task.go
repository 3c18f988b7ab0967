package domain

// EntityTask names the task collection in errors, events and cache keys.
const EntityTask = "Task"

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

// TaskStatuses lists the documented statuses in workflow order.
var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

// Task is a unit of work, optionally inside a project.
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	ProjectID   *int       `json:"projectId"`
}

// TaskDetails is the detail view of a task: its project and that project's owner.
type TaskDetails struct {
	Task
	Project *Project `json:"project"`
	Person  *Person  `json:"person"`
}

// NewTask holds the input of a task create.
type NewTask struct {
	Title       string
	Description string
	Status      TaskStatus
	ProjectID   Optional[int]
}

// Build returns the task to insert under id. An empty status falls back to todo.
func (n NewTask) Build(id int) Task {
	status := n.Status
	if status == "" {
		status = StatusTodo
	}
	return Task{
		ID:          id,
		Title:       n.Title,
		Description: n.Description,
		Status:      status,
		ProjectID:   n.ProjectID.Ref(),
	}
}

// TaskPatch is a partial task update. ProjectID set to null detaches the task.
type TaskPatch struct {
	Title       Optional[string]
	Description Optional[string]
	Status      Optional[TaskStatus]
	ProjectID   Optional[int]
}

// Apply copies the supplied fields onto t.
func (u TaskPatch) Apply(t *Task) {
	if v, ok := u.Title.Get(); ok {
		t.Title = v
	}
	if v, ok := u.Description.Get(); ok {
		t.Description = v
	}
	if v, ok := u.Status.Get(); ok {
		t.Status = v
	}
	if u.ProjectID.IsSet() {
		t.ProjectID = u.ProjectID.Ref()
	}
}
