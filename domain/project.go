package domain

import "time"

// EntityProject names the project collection in errors, events and cache keys.
const EntityProject = "Project"

// Project groups tasks and is optionally owned by a person.
type Project struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	PersonID    *int      `json:"personId"`
}

// ProjectWithTasks is a project joined with its tasks, as nested in a person view.
type ProjectWithTasks struct {
	Project
	Tasks []Task `json:"tasks"`
}

// ProjectDetails is the detail view of a project.
type ProjectDetails struct {
	Project
	Tasks  []Task  `json:"tasks"`
	Person *Person `json:"person"`
}

// NewProject holds the input of a project create.
type NewProject struct {
	Name        string
	Description string
	PersonID    Optional[int]
}

// Build returns the project to insert under id. A null owner is the same as none.
func (n NewProject) Build(id int, now time.Time) Project {
	return Project{
		ID:          id,
		Name:        n.Name,
		Description: n.Description,
		CreatedAt:   now,
		PersonID:    n.PersonID.Ref(),
	}
}

// ProjectPatch is a partial project update. PersonID set to null clears the owner.
type ProjectPatch struct {
	Name        Optional[string]
	Description Optional[string]
	PersonID    Optional[int]
}

// Apply copies the supplied fields onto p.
func (u ProjectPatch) Apply(p *Project) {
	if v, ok := u.Name.Get(); ok {
		p.Name = v
	}
	if v, ok := u.Description.Get(); ok {
		p.Description = v
	}
	if u.PersonID.IsSet() {
		p.PersonID = u.PersonID.Ref()
	}
}
