package model

import "time"

// Airplane describes an aircraft in the fleet.  The physical seat
// layout of an airplane is stored separately as seat catalog entries
// and is considered frozen once the airplane is in service.
//
// Fields:
//  ID           – primary key identifier.
//  Registration – tail number, e.g. "EP-IKA".
//  ModelName    – manufacturer model, e.g. "A320-200".
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Airplane struct {
	ID           uint64    // airplanes.id
	Registration string    // airplanes.registration
	ModelName    string    // airplanes.model_name
	CreatedAt    time.Time // airplanes.created_at
	UpdatedAt    time.Time // airplanes.updated_at
}
