package storage

import (
	"errors"

	"github.com/ipfs/go-cid"
)

// Fallback provides deterministic, ordered read fallback across multiple CAS
// stores.
//
// Lookup order is the slice order in Stores; callers MUST supply a fixed
// order. This avoids map-iteration nondeterminism and makes the retrieval
// strategy explicit.
//
// Put is defined to write only to the first store.
type Fallback struct {
	Stores []CAS
}

func (f Fallback) Put(bytes []byte) (cid.Cid, error) {
	if len(f.Stores) == 0 {
		return cid.Undef, errors.New("storage: Fallback has no stores")
	}
	return f.Stores[0].Put(bytes)
}

func (f Fallback) Get(id cid.Cid) ([]byte, error) {
	for _, cas := range f.Stores {
		b, err := cas.Get(id)
		if err == nil {
			return b, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (f Fallback) Has(id cid.Cid) bool {
	for _, cas := range f.Stores {
		if cas.Has(id) {
			return true
		}
	}
	return false
}
