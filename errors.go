package flashsave

import "errors"

// ErrBufferTooSmall is returned by Store.Read (and Store.ReadVerified) when
// the caller-supplied buffer cannot hold the record's payload. This is a
// programming condition, not a medium condition, so it is never wrapped
// alongside a device I/O error.
var ErrBufferTooSmall = errors.New("flashsave: buffer too small for record")

// ErrInvalidConfig is returned by NewStore when SLOT_SIZE/SLOT_COUNT (or
// NewStaticReader's N) violate the compile-time constraints spec.md places
// on them. Go has no const generics, so these constraints are checked
// eagerly at construction instead of at compile time.
var ErrInvalidConfig = errors.New("flashsave: invalid store configuration")

// ErrChecksumMismatch is returned only by the opt-in Store.ReadVerified.
// The default Store.Read never verifies the chain hash: that is the
// scanner's job, and checking it again on every read would cost ops this
// store's tests and op-budget are pinned against.
var ErrChecksumMismatch = errors.New("flashsave: checksum mismatch")
