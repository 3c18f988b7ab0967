package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"actividad-api/domain"
)

const (
	docsPath     = "/api-docs"
	docsJSONPath = "/api-docs.json"
)

type openAPIDocument struct {
	OpenAPI    string                                 `json:"openapi"`
	Info       openAPIInfo                            `json:"info"`
	Servers    []openAPIServer                        `json:"servers"`
	Tags       []openAPITag                           `json:"tags"`
	Paths      map[string]map[string]openAPIOperation `json:"paths"`
	Components openAPIComponents                      `json:"components"`
}

type openAPIInfo struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

type openAPIServer struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type openAPITag struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type openAPIOperation struct {
	Tags        []string                   `json:"tags"`
	Summary     string                     `json:"summary"`
	OperationID string                     `json:"operationId"`
	Parameters  []openAPIParameter         `json:"parameters,omitempty"`
	RequestBody *openAPIRequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]openAPIResponse `json:"responses"`
}

type openAPIParameter struct {
	Name        string         `json:"name"`
	In          string         `json:"in"`
	Required    bool           `json:"required"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema"`
}

type openAPIRequestBody struct {
	Required bool                        `json:"required"`
	Content  map[string]openAPIMediaType `json:"content"`
}

type openAPIResponse struct {
	Description string                      `json:"description"`
	Content     map[string]openAPIMediaType `json:"content,omitempty"`
}

type openAPIMediaType struct {
	Schema map[string]any `json:"schema"`
}

type openAPIComponents struct {
	Schemas map[string]map[string]any `json:"schemas"`
}

func schemaRef(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func jsonContent(schema map[string]any) map[string]openAPIMediaType {
	return map[string]openAPIMediaType{echo.MIMEApplicationJSON: {Schema: schema}}
}

// openAPIPath converts an echo path such as /people/:id to /api/v1/people/{id}.
func openAPIPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, ":") {
			parts[i] = "{" + p[1:] + "}"
		}
	}
	return basePath + strings.Join(parts, "/")
}

func buildOpenAPI(rs []route) openAPIDocument {
	doc := openAPIDocument{
		OpenAPI: "3.0.0",
		Info: openAPIInfo{
			Title:       apiTitle,
			Version:     apiVersion,
			Description: "REST API to manage people, projects and tasks.",
		},
		Servers: []openAPIServer{{URL: "/", Description: "Current server"}},
		Tags: []openAPITag{
			{Name: "People", Description: "People who own projects"},
			{Name: "Projects", Description: "Projects grouping tasks"},
			{Name: "Tasks", Description: "Units of work"},
		},
		Paths:      map[string]map[string]openAPIOperation{},
		Components: openAPIComponents{Schemas: schemas()},
	}

	for _, r := range rs {
		op := openAPIOperation{
			Tags:        []string{r.tag},
			Summary:     r.summary,
			OperationID: r.operation,
			Responses:   map[string]openAPIResponse{},
		}
		if strings.Contains(r.path, ":id") {
			op.Parameters = []openAPIParameter{{
				Name:        "id",
				In:          "path",
				Required:    true,
				Description: "Numeric identifier",
				Schema:      map[string]any{"type": "integer"},
			}}
		}
		if r.request != "" {
			op.RequestBody = &openAPIRequestBody{Required: true, Content: jsonContent(schemaRef(r.request))}
		}

		success := openAPIResponse{Description: http.StatusText(r.success)}
		if r.response != "" {
			schema := schemaRef(r.response)
			if r.array {
				schema = map[string]any{"type": "array", "items": schema}
			}
			success.Content = jsonContent(schema)
		}
		op.Responses[strconv.Itoa(r.success)] = success

		for _, status := range r.failures {
			resp := openAPIResponse{Description: http.StatusText(status)}
			if r.method != http.MethodDelete {
				resp.Content = jsonContent(schemaRef("Error"))
			}
			op.Responses[strconv.Itoa(status)] = resp
		}

		path := openAPIPath(r.path)
		if doc.Paths[path] == nil {
			doc.Paths[path] = map[string]openAPIOperation{}
		}
		doc.Paths[path][strings.ToLower(r.method)] = op
	}
	return doc
}

func schemas() map[string]map[string]any {
	str := map[string]any{"type": "string"}
	integer := map[string]any{"type": "integer"}
	nullableInt := map[string]any{"type": "integer", "nullable": true}
	statuses := make([]string, 0, len(domain.TaskStatuses))
	for _, s := range domain.TaskStatuses {
		statuses = append(statuses, string(s))
	}
	status := map[string]any{"type": "string", "enum": statuses}

	object := func(required []string, props map[string]any, example map[string]any) map[string]any {
		s := map[string]any{"type": "object", "properties": props}
		if len(required) > 0 {
			s["required"] = required
		}
		if example != nil {
			s["example"] = example
		}
		return s
	}
	withFields := func(base string, props map[string]any) map[string]any {
		return map[string]any{"allOf": []any{schemaRef(base), object(nil, props, nil)}}
	}
	taskList := map[string]any{"type": "array", "items": schemaRef("Task")}

	return map[string]map[string]any{
		"Person": object([]string{"id", "name", "email", "role"}, map[string]any{
			"id": integer, "name": str, "email": str, "role": str,
		}, map[string]any{"id": 1, "name": "Jonathan Rosas", "email": "jonathan@example.com", "role": "admin"}),
		"Project": object([]string{"id", "name", "description", "createdAt", "personId"}, map[string]any{
			"id": integer, "name": str, "description": str,
			"createdAt": map[string]any{"type": "string", "format": "date-time"},
			"personId":  nullableInt,
		}, map[string]any{"id": 1, "name": "Mint", "description": "Dental app", "createdAt": "2025-01-01T00:00:00Z", "personId": 1}),
		"Task": object([]string{"id", "title", "description", "status", "projectId"}, map[string]any{
			"id": integer, "title": str, "description": str, "status": status, "projectId": nullableInt,
		}, map[string]any{"id": 1, "title": "Design UI", "description": "Main screen", "status": "todo", "projectId": 1}),
		"ProjectWithTasks": withFields("Project", map[string]any{"tasks": taskList}),
		"PersonWithProjects": withFields("Person", map[string]any{
			"projects": map[string]any{"type": "array", "items": schemaRef("ProjectWithTasks")},
		}),
		"ProjectDetails": withFields("Project", map[string]any{
			"tasks":  taskList,
			"person": map[string]any{"allOf": []any{schemaRef("Person")}, "nullable": true},
		}),
		"TaskDetails": withFields("Task", map[string]any{
			"project": map[string]any{"allOf": []any{schemaRef("Project")}, "nullable": true},
			"person":  map[string]any{"allOf": []any{schemaRef("Person")}, "nullable": true},
		}),
		"NewPerson": object([]string{"name", "email"}, map[string]any{
			"name": str, "email": str, "role": map[string]any{"type": "string", "default": domain.DefaultRole},
		}, map[string]any{"name": "Ana", "email": "ana@example.com"}),
		"PersonPatch": object(nil, map[string]any{"name": str, "email": str, "role": str},
			map[string]any{"role": "admin"}),
		"NewProject": object([]string{"name"}, map[string]any{
			"name": str, "description": map[string]any{"type": "string", "default": ""}, "personId": integer,
		}, map[string]any{"name": "Website", "description": "Landing page", "personId": 1}),
		"ProjectPatch": object(nil, map[string]any{"name": str, "description": str, "personId": nullableInt},
			map[string]any{"personId": nil}),
		"NewTask": object([]string{"title"}, map[string]any{
			"title": str, "description": map[string]any{"type": "string", "default": ""},
			"status": map[string]any{"type": "string", "enum": statuses, "default": string(domain.StatusTodo)},
			"projectId": integer,
		}, map[string]any{"title": "Write copy", "projectId": 1}),
		"TaskPatch": object(nil, map[string]any{
			"title": str, "description": str, "status": status, "projectId": nullableInt,
		}, map[string]any{"status": "in-progress"}),
		"Error": object([]string{"message"}, map[string]any{"message": str},
			map[string]any{"message": "Person not found"}),
	}
}

func docsJSON(doc openAPIDocument) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, doc)
	}
}

const docsHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>API Documentation - ` + apiTitle + `</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
  <style>.swagger-ui .topbar { display: none }</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function () {
      window.ui = SwaggerUIBundle({ url: "` + docsJSONPath + `", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`

func docsPage(c echo.Context) error {
	return c.HTML(http.StatusOK, docsHTML)
}
