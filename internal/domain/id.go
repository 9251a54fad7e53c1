package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID mints an identifier in the document store's native encoding
// (24 hex characters). Every repository uses it so ids look the same
// regardless of the backing store.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
