// Package storage defines content-addressable storage for canonical
// certificate bytes.
//
// All stores speak CIDv1 (raw + sha2-256) over canonical PCTF bytes; the CID
// is derived from the bytes, never assigned. Transport and placement are not
// validity: a certificate fetched from any store is still verified by
// regeneration before it is trusted.
package storage

import "github.com/ipfs/go-cid"

// CAS is a minimal content-addressable storage interface.
//
// Contract:
// - Put MUST be idempotent.
// - Stored objects MUST be immutable.
// - CIDs MUST be derived from the bytes written (callers are responsible for supplying canonical bytes).
// - Get MUST return ErrNotFound when the CID is absent.
type CAS interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
