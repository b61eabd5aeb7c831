package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/repository"
)

// Snapshot kinds, one per entity list.
const (
	KindTeachers = "teachers"
	KindSubjects = "subjects"
	KindSections = "sections"
	KindClasses  = "scheduled_classes"
)

// CatalogPersisters selects where each entity list is saved.
type CatalogPersisters struct {
	Teachers repository.Persister[model.Teacher]
	Subjects repository.Persister[model.Subject]
	Sections repository.Persister[model.Section]
	Classes  repository.Persister[model.ScheduledClass]
}

// MemoryPersisters keeps everything in process memory.
func MemoryPersisters() CatalogPersisters {
	return CatalogPersisters{
		Teachers: repository.NopPersister[model.Teacher]{},
		Subjects: repository.NopPersister[model.Subject]{},
		Sections: repository.NopPersister[model.Section]{},
		Classes:  repository.NopPersister[model.ScheduledClass]{},
	}
}

// PostgresPersisters snapshots every list into entity_snapshots.
func PostgresPersisters(pool *pgxpool.Pool) CatalogPersisters {
	return CatalogPersisters{
		Teachers: repository.NewPostgresSnapshot[model.Teacher](pool, KindTeachers),
		Subjects: repository.NewPostgresSnapshot[model.Subject](pool, KindSubjects),
		Sections: repository.NewPostgresSnapshot[model.Section](pool, KindSections),
		Classes:  repository.NewPostgresSnapshot[model.ScheduledClass](pool, KindClasses),
	}
}

// RedisPersisters snapshots every list under snapshot:{kind}.
func RedisPersisters(rdb redis.Cmdable) CatalogPersisters {
	return CatalogPersisters{
		Teachers: repository.NewRedisSnapshot[model.Teacher](rdb, KindTeachers),
		Subjects: repository.NewRedisSnapshot[model.Subject](rdb, KindSubjects),
		Sections: repository.NewRedisSnapshot[model.Section](rdb, KindSections),
		Classes:  repository.NewRedisSnapshot[model.ScheduledClass](rdb, KindClasses),
	}
}

// Catalog owns the entity lists. Writes that read another list (reference
// checks, overlap checks) hold mu so they see a consistent state.
type Catalog struct {
	mu sync.Mutex

	Teachers *repository.ListStore[model.Teacher]
	Subjects *repository.ListStore[model.Subject]
	Sections *repository.ListStore[model.Section]
	Classes  *repository.ListStore[model.ScheduledClass]
}

// NewMemoryCatalog returns an empty catalog that is never persisted.
func NewMemoryCatalog() *Catalog {
	return &Catalog{
		Teachers: repository.NewListStore[model.Teacher](nil),
		Subjects: repository.NewListStore[model.Subject](nil),
		Sections: repository.NewListStore[model.Section](nil),
		Classes:  repository.NewListStore[model.ScheduledClass](nil),
	}
}

// OpenCatalog loads every list from its persister.
func OpenCatalog(ctx context.Context, p CatalogPersisters) (*Catalog, error) {
	teachers, err := repository.OpenListStore(ctx, p.Teachers)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", KindTeachers, err)
	}
	subjects, err := repository.OpenListStore(ctx, p.Subjects)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", KindSubjects, err)
	}
	sections, err := repository.OpenListStore(ctx, p.Sections)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", KindSections, err)
	}
	classes, err := repository.OpenListStore(ctx, p.Classes)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", KindClasses, err)
	}
	return &Catalog{Teachers: teachers, Subjects: subjects, Sections: sections, Classes: classes}, nil
}

// Counts is the size of every list.
type Counts struct {
	Teachers int `json:"teachers"`
	Subjects int `json:"subjects"`
	Sections int `json:"sections"`
	Classes  int `json:"scheduled_classes"`
}

func (c *Catalog) Counts() Counts {
	return Counts{
		Teachers: c.Teachers.Len(),
		Subjects: c.Subjects.Len(),
		Sections: c.Sections.Len(),
		Classes:  c.Classes.Len(),
	}
}

// classesWhere returns the scheduled classes matching pred.
func (c *Catalog) classesWhere(pred func(model.ScheduledClass) bool) []model.ScheduledClass {
	var out []model.ScheduledClass
	for _, sc := range c.Classes.List() {
		if pred(sc) {
			out = append(out, sc)
		}
	}
	return out
}

// inUse builds a removal guard failing when any scheduled class matches ref.
func inUse[T any](c *Catalog, ref func(sc model.ScheduledClass, id int) bool, id int) repository.Guard[T] {
	return func([]T, T) error {
		n := len(c.classesWhere(func(sc model.ScheduledClass) bool { return ref(sc, id) }))
		if n > 0 {
			return fmt.Errorf("%w: %d scheduled classes", ErrInUse, n)
		}
		return nil
	}
}

// View joins a class with the names it references.
func (c *Catalog) View(sc model.ScheduledClass) model.ScheduledClassView {
	v := model.ScheduledClassView{ScheduledClass: sc, EndTime: sc.End()}
	if s, ok := c.Subjects.Get(sc.SubjectID); ok {
		v.SubjectName = s.Name
	}
	if t, ok := c.Teachers.Get(sc.TeacherID); ok {
		v.TeacherName = t.Name
	}
	if s, ok := c.Sections.Get(sc.SectionID); ok {
		v.SectionName = s.Name
	}
	return v
}
