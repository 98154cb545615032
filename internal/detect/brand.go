package detect

import (
	"sort"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// BrandResolver maps a free-text vehicle description to a make.
// ok is false when no brand can be determined.
type BrandResolver interface {
	Resolve(vehicle string) (brand string, ok bool)
}

// BrandResolverFunc adapts a plain function to BrandResolver.
type BrandResolverFunc func(vehicle string) (string, bool)

// Resolve implements BrandResolver.
func (f BrandResolverFunc) Resolve(vehicle string) (string, bool) { return f(vehicle) }

// TokenBrand assumes "<Year> <Make> <Model...>" and returns the second
// whitespace-delimited token unchanged. Multi-word makes resolve to their
// first word only.
func TokenBrand(vehicle string) (string, bool) {
	fields := strings.Fields(vehicle)
	if len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}

// AllowlistBrandResolver matches the text after the leading year token
// against a list of known makes, longest first, so "2020 LAND ROVER DEFENDER"
// resolves to "LAND ROVER". Descriptions matching no listed make fall back
// to TokenBrand.
type AllowlistBrandResolver struct {
	brands []string
}

// NewAllowlistBrandResolver builds a resolver over the given makes.
func NewAllowlistBrandResolver(brands []string) *AllowlistBrandResolver {
	sorted := make([]string, 0, len(brands))
	for _, b := range brands {
		if b = strings.TrimSpace(b); b != "" {
			sorted = append(sorted, b)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	return &AllowlistBrandResolver{brands: sorted}
}

// Resolve implements BrandResolver.
func (r *AllowlistBrandResolver) Resolve(vehicle string) (string, bool) {
	fields := strings.Fields(vehicle)
	if len(fields) < 2 {
		return "", false
	}
	rest := strings.Join(fields[1:], " ")
	for _, b := range r.brands {
		if rest == b || strings.HasPrefix(rest, b+" ") {
			return b, true
		}
	}
	return fields[1], true
}

type brandEntry struct {
	brand string
	ok    bool
}

// CachedBrandResolver memoizes another resolver per distinct description.
// Entries never expire, so a description is resolved at most once for the
// life of the process. Safe for concurrent use.
type CachedBrandResolver struct {
	next  BrandResolver
	cache *gocache.Cache
}

// NewCachedBrandResolver wraps next with an in-memory memo.
func NewCachedBrandResolver(next BrandResolver) *CachedBrandResolver {
	return &CachedBrandResolver{
		next:  next,
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Resolve implements BrandResolver.
func (r *CachedBrandResolver) Resolve(vehicle string) (string, bool) {
	if v, found := r.cache.Get(vehicle); found {
		e := v.(brandEntry)
		return e.brand, e.ok
	}
	brand, ok := r.next.Resolve(vehicle)
	r.cache.Set(vehicle, brandEntry{brand: brand, ok: ok}, gocache.NoExpiration)
	return brand, ok
}

// Len reports how many descriptions have been resolved.
func (r *CachedBrandResolver) Len() int {
	return r.cache.ItemCount()
}
