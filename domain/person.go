package domain

// EntityPerson names the person collection in errors, events and cache keys.
const EntityPerson = "Person"

// DefaultRole is assigned when a person is created without a role.
const DefaultRole = "user"

// Person is a member that can own projects.
type Person struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// PersonWithProjects is the detail view of a person: its projects, each with its tasks.
type PersonWithProjects struct {
	Person
	Projects []ProjectWithTasks `json:"projects"`
}

// NewPerson holds the input of a person create.
type NewPerson struct {
	Name  string
	Email string
	Role  string
}

// Build fills defaults and returns the person to insert under id.
// An empty role falls back to DefaultRole.
func (n NewPerson) Build(id int) Person {
	role := n.Role
	if role == "" {
		role = DefaultRole
	}
	return Person{ID: id, Name: n.Name, Email: n.Email, Role: role}
}

// PersonPatch is a partial person update.
type PersonPatch struct {
	Name  Optional[string]
	Email Optional[string]
	Role  Optional[string]
}

// Apply copies the supplied fields onto p. Null leaves a string field unchanged.
func (u PersonPatch) Apply(p *Person) {
	if v, ok := u.Name.Get(); ok {
		p.Name = v
	}
	if v, ok := u.Email.Get(); ok {
		p.Email = v
	}
	if v, ok := u.Role.Get(); ok {
		p.Role = v
	}
}
