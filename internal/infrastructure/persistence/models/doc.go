// Package models contains GORM-specific persistence models that map to
// database tables. These models are separate from the domain entities to
// keep the domain layer free of ORM concerns; mappers convert between the
// two.
//
// The invoice models deserve care: every hash-relevant column is written
// once on append and never updated. Only the invoice status and the
// per-line return flags are mutable after insert.
package models
