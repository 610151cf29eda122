package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the
// repository. This abstracts away the underlying storage implementation
// from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrKeyUsed is returned when a guarded key mutation finds the used flag
// already set. The transaction is rolled back without touching any counter,
// which is what makes a retried submission idempotent.
var ErrKeyUsed = errors.New("key already used")

// ErrRoundChanged is returned when a guarded round advance finds the room in
// a different phase than expected (a concurrent advance won).
var ErrRoundChanged = errors.New("round changed concurrently")
