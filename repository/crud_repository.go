package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/utils"
)

// CrudRepository is the generic GORM repository every entity repository
// embeds. preloads are the associations loaded eagerly on reads, typically
// "App" so the owning app's key is available for update-event routing.
type CrudRepository[T any] struct {
	db       *gorm.DB
	preloads []string
}

// NewCrudRepository creates a CrudRepository for model T with the given eager
// associations.
func NewCrudRepository[T any](db *gorm.DB, preloads ...string) *CrudRepository[T] {
	return &CrudRepository[T]{db: db, preloads: preloads}
}

// scoped returns a query with the eager associations applied.
func (r *CrudRepository[T]) scoped() *gorm.DB {
	q := r.db
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

// Save inserts the entity when its primary key is zero and updates it
// otherwise.
func (r *CrudRepository[T]) Save(e *T) error {
	return r.db.Save(e).Error
}

// FindByID loads one entity with its eager associations. Returns
// gorm.ErrRecordNotFound when the row does not exist.
func (r *CrudRepository[T]) FindByID(id int64) (*T, error) {
	var e T
	if err := r.scoped().First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// FindByIDs loads the entities with the given ids, preserving the input
// order. Missing ids are skipped.
func (r *CrudRepository[T]) FindByIDs(ids []int64) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	var es []T
	if err := r.scoped().Where("id IN ?", ids).Find(&es).Error; err != nil {
		return nil, err
	}
	return orderByIDs(es, ids), nil
}

// FindAll returns one page of entities plus the total row count.
func (r *CrudRepository[T]) FindAll(page utils.Pageable) ([]T, int64, error) {
	return r.findPage(page, r.db.Model(new(T)), r.scoped())
}

// FindAllByAppID returns one page of entities owned by one app.
func (r *CrudRepository[T]) FindAllByAppID(page utils.Pageable, appID int64) ([]T, int64, error) {
	return r.findPage(page,
		r.db.Model(new(T)).Where("app_id = ?", appID),
		r.scoped().Where("app_id = ?", appID))
}

// Delete removes one row. Returns gorm.ErrRecordNotFound when nothing was
// deleted.
func (r *CrudRepository[T]) Delete(id int64) error {
	res := r.db.Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CrudRepository[T]) findPage(page utils.Pageable, countQuery, listQuery *gorm.DB) ([]T, int64, error) {
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var es []T
	err := listQuery.Order("id").Offset(page.Offset()).Limit(page.Size).Find(&es).Error
	if err != nil {
		return nil, 0, err
	}
	return es, total, nil
}

// findOneBy loads the first entity matching the condition and maps "no rows"
// to (nil, gorm.ErrRecordNotFound) like FindByID does.
func (r *CrudRepository[T]) findOneBy(query string, args ...interface{}) (*T, error) {
	var e T
	err := r.scoped().Where(query, args...).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &e, nil
}

// orderByIDs reorders GORM results (which come back in table order) into the
// order of the requested ids. Search relevance depends on this.
func orderByIDs[T any](es []T, ids []int64) []T {
	type ided interface{ GetID() int64 }

	byID := make(map[int64]T, len(es))
	for _, e := range es {
		v := any(&e)
		if withID, ok := v.(ided); ok {
			byID[withID.GetID()] = e
		}
	}
	if len(byID) != len(es) {
		// Model without GetID, keep table order.
		return es
	}

	ordered := make([]T, 0, len(es))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			ordered = append(ordered, e)
		}
	}
	return ordered
}
