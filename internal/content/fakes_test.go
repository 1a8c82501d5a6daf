package content

import (
	"context"
	"sort"
	"sync"
	"time"

	"aicms/internal/apperr"
	"aicms/internal/models"
)

// memStore is an in-memory ItemStore and TypeStore.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	clock  time.Time
	types  map[int64]*models.ContentType
	items  map[int64]*models.ContentItem
	probes []string
	failOn string
}

func newMemStore() *memStore {
	return &memStore{
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		types: make(map[int64]*models.ContentType),
		items: make(map[int64]*models.ContentItem),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes = append(m.probes, slug)
	for _, it := range m.items {
		if it.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) toFields(itemID, typeID int64, in []models.FieldInput) []models.ContentField {
	out := make([]models.ContentField, 0, len(in))
	for _, f := range in {
		out = append(out, models.ContentField{
			ID: m.id(), ContentItemID: itemID, ContentTypeID: typeID,
			Name: f.Name, Type: f.Type, Value: f.Value,
		})
	}
	return out
}

func (m *memStore) Create(_ context.Context, item *models.ContentItem, fields []models.FieldInput) (*models.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.Slug == item.Slug {
			return nil, apperr.Invalid("slug", "already in use")
		}
	}
	c := *item
	c.ID = m.id()
	c.CreatedAt = m.tick()
	c.UpdatedAt = c.CreatedAt
	c.Fields = m.toFields(c.ID, c.ContentTypeID, fields)
	m.items[c.ID] = &c
	return m.snapshot(&c), nil
}

func (m *memStore) snapshot(c *models.ContentItem) *models.ContentItem {
	out := *c
	out.Fields = append([]models.ContentField(nil), c.Fields...)
	out.ContentType = m.types[c.ContentTypeID]
	out.Media = []models.ContentMediaRelation{}
	return &out
}

func (m *memStore) FindByID(_ context.Context, id int64) (*models.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return m.snapshot(c), nil
}

func (m *memStore) FindPublishedBySlug(_ context.Context, slug string) (*models.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		if c.Slug == slug && c.IsPublished() {
			return m.snapshot(c), nil
		}
	}
	return nil, nil
}

func (m *memStore) List(_ context.Context, f models.ContentFilter) ([]models.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ContentItem{}
	for _, c := range m.items {
		if f.ContentTypeID != nil && c.ContentTypeID != *f.ContentTypeID {
			continue
		}
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		out = append(out, *m.snapshot(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *memStore) Update(_ context.Context, id int64, p models.ContentPatch) (*models.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	if m.failOn == "update" {
		return nil, context.DeadlineExceeded
	}
	next := *c
	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.Slug != nil {
		next.Slug = *p.Slug
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.Fields != nil {
		next.Fields = m.toFields(id, c.ContentTypeID, p.Fields)
	}
	next.UpdatedAt = m.tick()
	m.items[id] = &next
	return m.snapshot(&next), nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

// memTypes adapts memStore to TypeStore; the method names overlap with
// ItemStore so the type side lives on its own receiver.
type memTypes struct{ m *memStore }

func (t memTypes) List(_ context.Context) ([]models.ContentType, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	out := []models.ContentType{}
	for _, ct := range t.m.types {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (t memTypes) FindByID(_ context.Context, id int64) (*models.ContentType, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	return t.m.types[id], nil
}

func (t memTypes) FindByName(_ context.Context, name string) (*models.ContentType, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for _, ct := range t.m.types {
		if ct.Name == name {
			return ct, nil
		}
	}
	return nil, nil
}

func (t memTypes) Create(_ context.Context, name string, defs []models.FieldDefinition) (*models.ContentType, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	ct := &models.ContentType{ID: t.m.id(), Name: name, CreatedAt: t.m.tick()}
	for _, d := range defs {
		d.ID = t.m.id()
		d.ContentTypeID = ct.ID
		ct.Fields = append(ct.Fields, d)
	}
	t.m.types[ct.ID] = ct
	return ct, nil
}

// recordingCache records invalidated slugs.
type recordingCache struct {
	mu    sync.Mutex
	slugs []string
}

func (c *recordingCache) Invalidate(_ context.Context, slug string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slugs = append(c.slugs, slug)
	return nil
}
