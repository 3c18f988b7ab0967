package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"actividad-api/domain"
)

type backend interface {
	Version() uint64

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

// Cache serves read operations from Redis. Keys embed the backend version, so
// a committed write makes every older entry unreachable and entries expire by TTL.
// Writes pass straight through to the backend.
type Cache struct {
	backend
	redis     *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCache wraps base with a Redis read cache. namespace isolates this process's
// keys from other instances sharing the same Redis.
func NewCache(base backend, client *redis.Client, ttl time.Duration, namespace string) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{backend: base, redis: client, ttl: ttl, namespace: namespace}
}

func (c *Cache) key(version uint64, name string) string {
	return c.namespace + ":v" + strconv.FormatUint(version, 10) + ":" + name
}

func listKey(entity string) string {
	return entity + ":list"
}

func itemKey(entity string, id int) string {
	return entity + ":" + strconv.Itoa(id)
}

// cached loads key from Redis or calls fetch and stores the result. The version
// is read before fetching, so a stored value is never older than its key.
func cached[T any](ctx context.Context, c *Cache, name string, fetch func() (T, error)) (T, error) {
	if c.redis == nil {
		return fetch()
	}
	key := c.key(c.backend.Version(), name)
	if v, ok := load[T](ctx, c.redis, key); ok {
		return v, nil
	}
	v, err := fetch()
	if err != nil {
		return v, err
	}
	c.store(ctx, key, v)
	return v, nil
}

func load[T any](ctx context.Context, client *redis.Client, key string) (T, bool) {
	var v T
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing store without failing.
			_ = client.Del(ctx, key).Err()
		}
		return v, false
	}
	if err := sonic.Unmarshal(data, &v); err != nil {
		_ = client.Del(ctx, key).Err()
		return v, false
	}
	return v, true
}

func (c *Cache) store(ctx context.Context, key string, v any) {
	if c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(v)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}

func (c *Cache) ListPeople(ctx context.Context) ([]domain.Person, error) {
	return cached(ctx, c, listKey(domain.EntityPerson), func() ([]domain.Person, error) {
		return c.backend.ListPeople(ctx)
	})
}

func (c *Cache) GetPerson(ctx context.Context, id int) (domain.PersonWithProjects, error) {
	return cached(ctx, c, itemKey(domain.EntityPerson, id), func() (domain.PersonWithProjects, error) {
		return c.backend.GetPerson(ctx, id)
	})
}

func (c *Cache) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return cached(ctx, c, listKey(domain.EntityProject), func() ([]domain.Project, error) {
		return c.backend.ListProjects(ctx)
	})
}

func (c *Cache) GetProject(ctx context.Context, id int) (domain.ProjectDetails, error) {
	return cached(ctx, c, itemKey(domain.EntityProject, id), func() (domain.ProjectDetails, error) {
		return c.backend.GetProject(ctx, id)
	})
}

func (c *Cache) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return cached(ctx, c, listKey(domain.EntityTask), func() ([]domain.Task, error) {
		return c.backend.ListTasks(ctx)
	})
}

func (c *Cache) GetTask(ctx context.Context, id int) (domain.TaskDetails, error) {
	return cached(ctx, c, itemKey(domain.EntityTask, id), func() (domain.TaskDetails, error) {
		return c.backend.GetTask(ctx, id)
	})
}
