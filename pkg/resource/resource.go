// Package resource shapes models into API output. Controllers define
// a transform function per model and reuse it for single items,
// slices, and paginated sets.
//
//	func productOut(p models.Product) resource.Map {
//	    return resource.Map{"id": p.ID, "name": p.Name, "price": p.Price}
//	}
//	response.Success(w, "ok", resource.Slice(products, productOut))
package resource

import (
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/collection"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/orm"
)

// Map is the JSON shape a transform produces.
type Map = map[string]interface{}

// Item transforms a single model.
func Item[T any](v T, transform func(T) Map) Map {
	return transform(v)
}

// Slice transforms each element. A nil input yields an empty, not
// null, JSON array.
func Slice[T any](items []T, transform func(T) Map) []Map {
	out := collection.Map(items, transform)
	if out == nil {
		out = []Map{}
	}
	return out
}

// Paginated wraps a transformed page with its pagination metadata.
func Paginated[T any](items []T, p orm.Pagination, transform func(T) Map) Map {
	return Map{
		"items": Slice(items, transform),
		"pagination": Map{
			"page":        p.Page,
			"per_page":    p.PerPage,
			"total":       p.Total,
			"total_pages": p.TotalPages,
		},
	}
}
