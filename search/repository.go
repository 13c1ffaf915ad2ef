package search

import (
	"strconv"

	"github.com/blevesearch/bleve/v2"

	"github.com/boyuanitsm/fort/utils"
)

// Repository mirrors one entity kind into its bleve index. Document IDs are
// the decimal relational row ids, so search hits can be resolved back against
// the store.
type Repository struct {
	engine *Engine
	kind   string
}

// NewRepository creates the search repository for one entity kind. kind must
// be the lower-cased entity kind, e.g. "security_role".
func NewRepository(engine *Engine, kind string) *Repository {
	return &Repository{engine: engine, kind: kind}
}

// Kind returns the entity kind this repository indexes.
func (r *Repository) Kind() string {
	return r.kind
}

// Save indexes one document under the entity's row id, replacing any previous
// version.
func (r *Repository) Save(id int64, doc interface{}) error {
	idx, err := r.engine.Index(r.kind)
	if err != nil {
		return err
	}
	return idx.Index(strconv.FormatInt(id, 10), doc)
}

// Delete removes the document of one row id. Deleting a missing document is
// not an error.
func (r *Repository) Delete(id int64) error {
	idx, err := r.engine.Index(r.kind)
	if err != nil {
		return err
	}
	return idx.Delete(strconv.FormatInt(id, 10))
}

// Search runs a validated query against the index and returns the matching
// row ids in relevance order plus the total hit count.
func (r *Repository) Search(q Query, page utils.Pageable) ([]int64, uint64, error) {
	idx, err := r.engine.Index(r.kind)
	if err != nil {
		return nil, 0, err
	}

	req := bleve.NewSearchRequestOptions(q.bleveQuery(), page.Size, page.Offset(), false)
	res, err := idx.Search(req)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			// Foreign documents in the index are skipped, not fatal.
			continue
		}
		ids = append(ids, id)
	}
	return ids, res.Total, nil
}
