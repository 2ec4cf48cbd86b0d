// Package flashsave implements a power-fail-safe, wear-leveling save-slot
// store for block-addressable flash memory (byte-writable EEPROM or
// sector-erase NOR).
//
// The store keeps a single application-defined blob durable across reboots
// and power loss. It is laid out as a circular append log of fixed-size
// slots: every commit writes a new slot chained to the previous one via a
// checksum, and a boot-time scan walks the log to find the freshest fully
// committed record without ever losing the previously committed blob.
//
// The core does not manage multiple keyed blobs, concurrent writers,
// encryption, or bad-block management — callers needing those should layer
// them on top.
package flashsave
