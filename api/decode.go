package api

import (
	"bytes"
	"io"
	"math"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"actividad-api/domain"
)

const maxBodySize = 1 << 20

// bodyFields is a decoded JSON object. Keeping the raw map lets patches tell an
// absent field from one sent as null.
type bodyFields map[string]any

func decodeBody(c echo.Context) (bodyFields, error) {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodySize))
	if err != nil {
		return nil, domain.Invalid("invalid body")
	}
	fields := bodyFields{}
	if len(bytes.TrimSpace(data)) == 0 {
		return fields, nil
	}
	if err := sonic.ConfigStd.Unmarshal(data, &fields); err != nil {
		return nil, domain.Invalid("invalid body")
	}
	if fields == nil {
		fields = bodyFields{}
	}
	return fields, nil
}

func (f bodyFields) optionalString(key string) (domain.Optional[string], error) {
	raw, ok := f[key]
	if !ok {
		return domain.Optional[string]{}, nil
	}
	if raw == nil {
		return domain.Null[string](), nil
	}
	s, ok := raw.(string)
	if !ok {
		return domain.Optional[string]{}, domain.Invalid(key + " must be a string")
	}
	return domain.Some(s), nil
}

// str returns the string value of key, or "" when absent or null.
func (f bodyFields) str(key string) (string, error) {
	opt, err := f.optionalString(key)
	if err != nil {
		return "", err
	}
	v, _ := opt.Get()
	return v, nil
}

func (f bodyFields) optionalID(key string) (domain.Optional[int], error) {
	raw, ok := f[key]
	if !ok {
		return domain.Optional[int]{}, nil
	}
	if raw == nil {
		return domain.Null[int](), nil
	}
	n, ok := raw.(float64)
	if !ok || n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
		return domain.Optional[int]{}, domain.Invalid(key + " must be an integer")
	}
	return domain.Some(int(n)), nil
}

func (f bodyFields) optionalStatus(key string) (domain.Optional[domain.TaskStatus], error) {
	opt, err := f.optionalString(key)
	if err != nil || !opt.IsSet() {
		return domain.Optional[domain.TaskStatus]{}, err
	}
	if opt.IsNull() {
		return domain.Null[domain.TaskStatus](), nil
	}
	v, _ := opt.Get()
	return domain.Some(domain.TaskStatus(v)), nil
}

func personPatchFrom(f bodyFields) (patch domain.PersonPatch, err error) {
	if patch.Name, err = f.optionalString("name"); err != nil {
		return patch, err
	}
	if patch.Email, err = f.optionalString("email"); err != nil {
		return patch, err
	}
	patch.Role, err = f.optionalString("role")
	return patch, err
}

func projectPatchFrom(f bodyFields) (patch domain.ProjectPatch, err error) {
	if patch.Name, err = f.optionalString("name"); err != nil {
		return patch, err
	}
	if patch.Description, err = f.optionalString("description"); err != nil {
		return patch, err
	}
	patch.PersonID, err = f.optionalID("personId")
	return patch, err
}

func taskPatchFrom(f bodyFields) (patch domain.TaskPatch, err error) {
	if patch.Title, err = f.optionalString("title"); err != nil {
		return patch, err
	}
	if patch.Description, err = f.optionalString("description"); err != nil {
		return patch, err
	}
	if patch.Status, err = f.optionalStatus("status"); err != nil {
		return patch, err
	}
	patch.ProjectID, err = f.optionalID("projectId")
	return patch, err
}

func newPersonFrom(f bodyFields) (in domain.NewPerson, err error) {
	if in.Name, err = f.str("name"); err != nil {
		return in, err
	}
	if in.Email, err = f.str("email"); err != nil {
		return in, err
	}
	if in.Role, err = f.str("role"); err != nil {
		return in, err
	}
	if in.Name == "" || in.Email == "" {
		return in, domain.Invalid("Name and email are required")
	}
	return in, nil
}

func newProjectFrom(f bodyFields) (in domain.NewProject, err error) {
	if in.Name, err = f.str("name"); err != nil {
		return in, err
	}
	if in.Description, err = f.str("description"); err != nil {
		return in, err
	}
	if in.PersonID, err = f.optionalID("personId"); err != nil {
		return in, err
	}
	if in.Name == "" {
		return in, domain.Invalid("Name is required")
	}
	return in, nil
}

func newTaskFrom(f bodyFields) (in domain.NewTask, err error) {
	if in.Title, err = f.str("title"); err != nil {
		return in, err
	}
	if in.Description, err = f.str("description"); err != nil {
		return in, err
	}
	status, err := f.str("status")
	if err != nil {
		return in, err
	}
	in.Status = domain.TaskStatus(status)
	if in.ProjectID, err = f.optionalID("projectId"); err != nil {
		return in, err
	}
	if in.Title == "" {
		return in, domain.Invalid("Title is required")
	}
	return in, nil
}
