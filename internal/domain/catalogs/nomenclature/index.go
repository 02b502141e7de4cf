package nomenclature

import (
	"sort"
	"strings"

	"stockcard/internal/core/id"
)

// Index resolves catalogue codes to article IDs once, at the boundary,
// so everything downstream works on article IDs only.
type Index struct {
	byID        map[id.ID]*Article
	byCatalogue map[string]id.ID
	ordered     []*Article
}

// NewIndex builds an index. An article ID listed twice is kept once, first
// occurrence wins. When two articles share a catalogue code the one with the
// lowest ID owns it. Codes are matched case-insensitively with surrounding
// spaces removed.
func NewIndex(articles []*Article) *Index {
	ordered := make([]*Article, 0, len(articles))
	for _, a := range articles {
		if a != nil && !a.ID.IsNil() {
			ordered = append(ordered, a)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID.Less(ordered[j].ID) })

	idx := &Index{
		byID:        make(map[id.ID]*Article, len(ordered)),
		byCatalogue: make(map[string]id.ID, len(ordered)),
		ordered:     ordered[:0],
	}
	for _, a := range ordered {
		if _, dup := idx.byID[a.ID]; dup {
			continue
		}
		idx.byID[a.ID] = a
		idx.ordered = append(idx.ordered, a)
		if key := normalizeCatalogue(a.Catalogue); key != "" {
			if _, taken := idx.byCatalogue[key]; !taken {
				idx.byCatalogue[key] = a.ID
			}
		}
	}
	return idx
}

func normalizeCatalogue(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Resolve maps a catalogue code to an article ID.
func (x *Index) Resolve(catalogue string) (id.ID, bool) {
	articleID, ok := x.byCatalogue[normalizeCatalogue(catalogue)]
	return articleID, ok
}

// Get returns the article with the given ID.
func (x *Index) Get(articleID id.ID) (*Article, bool) {
	a, ok := x.byID[articleID]
	return a, ok
}

// Articles returns all indexed articles ordered by ID.
func (x *Index) Articles() []*Article {
	return x.ordered
}

// Len returns the number of distinct articles.
func (x *Index) Len() int { return len(x.byID) }
