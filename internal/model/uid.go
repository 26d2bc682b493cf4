package model

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewUID returns a random 32 hex digit identifier, the GUID form GnuCash uses.
func NewUID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// DerivedUID returns a stable identifier derived from name in the namespace
// of parent. Used for synthetic entities that must be identical across runs.
func DerivedUID(parent, name string) string {
	ns, err := uuid.Parse(parent)
	if err != nil {
		ns = uuid.NewSHA1(uuid.NameSpaceOID, []byte(parent))
	}
	u := uuid.NewSHA1(ns, []byte(name))
	return hex.EncodeToString(u[:])
}
