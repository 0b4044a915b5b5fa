package entity

import "oflo/internal/core/id"

// Identifiable is a stored entity whose key is assigned on insert.
type Identifiable interface {
	Validatable
	GetID() id.ID
	SetID(id.ID)
}
