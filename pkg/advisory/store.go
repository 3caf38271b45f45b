package advisory

import (
	"context"
	"fmt"
	"slices"
)

// LoadError aborts a store load. Loading is all-or-nothing: one invalid
// document rejects the whole set, because partial advisory data is worse
// than no data.
type LoadError struct {
	// ID is the advisory ID when known, or the document's path for inputs
	// that could not be decoded far enough to have one.
	ID  string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("invalid advisory %q: %v", e.ID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Store is an immutable index of advisories: by package identity for
// matching, and by ID or alias for reverse lookup. Build one with Load and
// treat it as read-only afterward.
type Store struct {
	byPackage map[PackageID][]Advisory
	byAlias   map[string]Advisory
	packages  []PackageID
	count     int
}

// Load validates and compiles documents into a Store. The first invalid
// document aborts the load with a *LoadError and no partial store is
// returned. Within a package, advisories keep their input order.
func Load(ctx context.Context, docs []Document) (*Store, error) {
	store := &Store{
		byPackage: make(map[PackageID][]Advisory),
		byAlias:   make(map[string]Advisory),
	}

	for _, doc := range docs {
		adv, err := doc.compile(ctx)
		if err != nil {
			return nil, &LoadError{ID: doc.ID, Err: err}
		}

		if _, ok := store.byAlias[adv.ID]; ok {
			return nil, &LoadError{ID: adv.ID, Err: fmt.Errorf("advisory ID %q is already in use", adv.ID)}
		}

		if _, ok := store.byPackage[adv.Package]; !ok {
			store.packages = append(store.packages, adv.Package)
		}
		store.byPackage[adv.Package] = append(store.byPackage[adv.Package], adv)
		store.count++

		// The advisory's own ID always resolves to it. Aliases resolve to the
		// first advisory that claimed them, which keeps reverse lookup
		// deterministic when several advisories share an upstream alias.
		store.byAlias[adv.ID] = adv
		for _, alias := range adv.Aliases {
			if _, ok := store.byAlias[alias]; !ok {
				store.byAlias[alias] = adv
			}
		}
	}

	return store, nil
}

// Lookup returns the advisories recorded against the given package, in the
// order they were loaded. The result is a copy and may be retained.
func (s *Store) Lookup(pkg PackageID) []Advisory {
	return slices.Clone(s.byPackage[pkg])
}

// LookupAlias resolves an advisory ID or any of its aliases.
func (s *Store) LookupAlias(id string) (Advisory, bool) {
	adv, ok := s.byAlias[id]
	return adv, ok
}

// Len returns the number of advisories in the store.
func (s *Store) Len() int {
	return s.count
}

// Packages returns the distinct package identities in the store, in
// first-loaded order.
func (s *Store) Packages() []PackageID {
	return slices.Clone(s.packages)
}

// Advisories returns every advisory in the store, grouped by package in
// first-loaded order.
func (s *Store) Advisories() []Advisory {
	out := make([]Advisory, 0, s.count)
	for _, pkg := range s.packages {
		out = append(out, s.byPackage[pkg]...)
	}
	return out
}
