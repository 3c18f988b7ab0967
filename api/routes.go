package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// route describes one endpoint under basePath. The same table registers the
// handlers and generates the OpenAPI document.
type route struct {
	method    string
	path      string
	tag       string
	operation string
	summary   string
	request   string // request body schema, empty for none
	response  string // success body schema, empty for none
	array     bool   // success body is a list of response
	success   int
	failures  []int
	handler   func(deps) echo.HandlerFunc
}

var routes = []route{
	{
		method: http.MethodPost, path: "/people", tag: "People", operation: "createPerson",
		summary: "Create a person", request: "NewPerson", response: "Person",
		success: http.StatusCreated, failures: []int{http.StatusBadRequest, http.StatusConflict},
		handler: createPerson,
	},
	{
		method: http.MethodGet, path: "/people", tag: "People", operation: "listPeople",
		summary: "List all people", response: "Person", array: true,
		success: http.StatusOK,
		handler: listPeople,
	},
	{
		method: http.MethodGet, path: "/people/:id", tag: "People", operation: "getPerson",
		summary: "Get a person with its projects and their tasks", response: "PersonWithProjects",
		success: http.StatusOK, failures: []int{http.StatusNotFound},
		handler: getPerson,
	},
	{
		method: http.MethodPut, path: "/people/:id", tag: "People", operation: "updatePerson",
		summary: "Update a person", request: "PersonPatch", response: "Person",
		success: http.StatusOK, failures: []int{http.StatusBadRequest, http.StatusNotFound},
		handler: updatePerson,
	},
	{
		method: http.MethodDelete, path: "/people/:id", tag: "People", operation: "deletePerson",
		summary: "Delete a person",
		success: http.StatusNoContent, failures: []int{http.StatusNotFound},
		handler: deletePerson,
	},
	{
		method: http.MethodPost, path: "/projects", tag: "Projects", operation: "createProject",
		summary: "Create a project", request: "NewProject", response: "Project",
		success: http.StatusCreated, failures: []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
		handler: createProject,
	},
	{
		method: http.MethodGet, path: "/projects", tag: "Projects", operation: "listProjects",
		summary: "List all projects", response: "Project", array: true,
		success: http.StatusOK,
		handler: listProjects,
	},
	{
		method: http.MethodGet, path: "/projects/:id", tag: "Projects", operation: "getProject",
		summary: "Get a project with its tasks and owner", response: "ProjectDetails",
		success: http.StatusOK, failures: []int{http.StatusNotFound},
		handler: getProject,
	},
	{
		method: http.MethodPut, path: "/projects/:id", tag: "Projects", operation: "updateProject",
		summary: "Update a project", request: "ProjectPatch", response: "Project",
		success: http.StatusOK, failures: []int{http.StatusBadRequest, http.StatusNotFound},
		handler: updateProject,
	},
	{
		method: http.MethodDelete, path: "/projects/:id", tag: "Projects", operation: "deleteProject",
		summary: "Delete a project",
		success: http.StatusNoContent, failures: []int{http.StatusNotFound},
		handler: deleteProject,
	},
	{
		method: http.MethodPost, path: "/tasks", tag: "Tasks", operation: "createTask",
		summary: "Create a task", request: "NewTask", response: "Task",
		success: http.StatusCreated, failures: []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
		handler: createTask,
	},
	{
		method: http.MethodGet, path: "/tasks", tag: "Tasks", operation: "listTasks",
		summary: "List all tasks", response: "Task", array: true,
		success: http.StatusOK,
		handler: listTasks,
	},
	{
		method: http.MethodGet, path: "/tasks/:id", tag: "Tasks", operation: "getTask",
		summary: "Get a task with its project and owner", response: "TaskDetails",
		success: http.StatusOK, failures: []int{http.StatusNotFound},
		handler: getTask,
	},
	{
		method: http.MethodPut, path: "/tasks/:id", tag: "Tasks", operation: "updateTask",
		summary: "Update a task", request: "TaskPatch", response: "Task",
		success: http.StatusOK, failures: []int{http.StatusBadRequest, http.StatusNotFound},
		handler: updateTask,
	},
	{
		method: http.MethodDelete, path: "/tasks/:id", tag: "Tasks", operation: "deleteTask",
		summary: "Delete a task",
		success: http.StatusNoContent, failures: []int{http.StatusNotFound},
		handler: deleteTask,
	},
}
