package api

import (
	"net/http"
	"strconv"
	"strings"
	"testing"
)

func TestBuildOpenAPICoversEveryRoute(t *testing.T) {
	doc := buildOpenAPI(routes)

	if doc.OpenAPI != "3.0.0" || doc.Info.Title != apiTitle || doc.Info.Version != apiVersion {
		t.Fatalf("unexpected document header: %#v", doc.Info)
	}
	if len(doc.Paths) != 6 {
		t.Fatalf("expected 6 paths, got %d", len(doc.Paths))
	}

	for _, r := range routes {
		path := openAPIPath(r.path)
		op, ok := doc.Paths[path][strings.ToLower(r.method)]
		if !ok {
			t.Fatalf("missing %s %s", r.method, path)
		}
		if op.OperationID != r.operation {
			t.Fatalf("unexpected operationId %q for %s %s", op.OperationID, r.method, path)
		}
		if _, ok := op.Responses[strconv.Itoa(r.success)]; !ok {
			t.Fatalf("missing success response for %s", r.operation)
		}
		if strings.Contains(r.path, ":id") && len(op.Parameters) != 1 {
			t.Fatalf("expected id parameter for %s", r.operation)
		}
		if r.request != "" && op.RequestBody == nil {
			t.Fatalf("expected request body for %s", r.operation)
		}
		for _, name := range []string{r.request, r.response} {
			if name == "" {
				continue
			}
			if _, ok := doc.Components.Schemas[name]; !ok {
				t.Fatalf("schema %q referenced by %s is not defined", name, r.operation)
			}
		}
	}
}

func TestBuildOpenAPIDeleteHasNoErrorBody(t *testing.T) {
	doc := buildOpenAPI(routes)

	del := doc.Paths["/api/v1/tasks/{id}"]["delete"]
	resp, ok := del.Responses["404"]
	if !ok {
		t.Fatalf("expected 404 response on delete")
	}
	if resp.Content != nil {
		t.Fatalf("expected no body on delete 404, got %#v", resp.Content)
	}

	get := doc.Paths["/api/v1/tasks/{id}"]["get"]
	if get.Responses["404"].Content == nil {
		t.Fatalf("expected error body on get 404")
	}
	if del.Responses["204"].Description != http.StatusText(http.StatusNoContent) {
		t.Fatalf("unexpected 204 description: %q", del.Responses["204"].Description)
	}
}

func TestOpenAPIPath(t *testing.T) {
	tests := map[string]string{
		"/people":      "/api/v1/people",
		"/people/:id":  "/api/v1/people/{id}",
		"/tasks/:id/x": "/api/v1/tasks/{id}/x",
	}
	for in, want := range tests {
		if got := openAPIPath(in); got != want {
			t.Fatalf("openAPIPath(%q) = %q, want %q", in, got, want)
		}
	}
}
