// Package model defines the catalog records exchanged with the readwatch API.
package model

// ObjectID is the identity the remote store assigns to a catalog item.
// It arrives as a nested object holding the opaque id under "$oid".
type ObjectID struct {
	OID string `json:"$oid"`
}

// IsZero returns true if no identity has been assigned.
func (id ObjectID) IsZero() bool {
	return id.OID == ""
}

// String returns the opaque id.
func (id ObjectID) String() string {
	return id.OID
}
