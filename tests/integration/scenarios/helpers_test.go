package scenarios

import (
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"actividad-api/tests/integration/internal/httpclient"
)

type person struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type project struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	PersonID    *int      `json:"personId"`
	Tasks       []task    `json:"tasks"`
	Person      *person   `json:"person"`
}

type task struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	ProjectID   *int     `json:"projectId"`
	Project     *project `json:"project"`
	Person      *person  `json:"person"`
}

func newClient(t *testing.T) *httpclient.Client {
	base := os.Getenv("API_BASE")
	if base == "" {
		base = "http://localhost:8080"
	}
	health := os.Getenv("HEALTH_ENDPOINT")
	if health == "" {
		health = "/healthz"
	}
	resp, err := http.Get(base + health)
	if err != nil {
		t.Skipf("skipping, API not reachable: %v", err)
	}
	_ = resp.Body.Close()
	return httpclient.New(base)
}

func unique(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func createPerson(t *testing.T, client *httpclient.Client) person {
	t.Helper()
	name := unique("person")
	var p person
	resp, err := client.PostJSON("/api/v1/people", map[string]any{"name": name, "email": name + "@example.com"}, &p)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create person: %v", err)
	}
	return p
}

func createProject(t *testing.T, client *httpclient.Client, personID int) project {
	t.Helper()
	var p project
	resp, err := client.PostJSON("/api/v1/projects", map[string]any{"name": unique("project"), "personId": personID}, &p)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create project: %v", err)
	}
	return p
}
