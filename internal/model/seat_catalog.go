package model

import "time"

// SeatCatalogEntry describes one physical seat of an airplane.  The
// catalog is static reference data: once an airplane is in service its
// layout changes only through an operational migration, never through a
// runtime mutation.
//
// Fields:
//  ID          – primary key identifier.
//  AirplaneID  – airplane to which this seat belongs.
//  SeatClassID – cabin class of the seat (economy, business, ...).
//  SeatNumber  – printed designator, e.g. "12C".
//  RowNumber   – cabin row (1-based).
//  ColumnLabel – column letter within the row, e.g. "C".
//  IsWindow    – seat is adjacent to a window.
//  IsAisle     – seat is adjacent to the aisle.
//  IsExitRow   – seat sits in an emergency exit row.
//  CreatedAt   – creation timestamp.
type SeatCatalogEntry struct {
	ID          uint64    // seat_catalog.id
	AirplaneID  uint64    // seat_catalog.airplane_id
	SeatClassID uint64    // seat_catalog.seat_class_id
	SeatNumber  string    // seat_catalog.seat_number
	RowNumber   uint32    // seat_catalog.row_num
	ColumnLabel string    // seat_catalog.column_label
	IsWindow    bool      // seat_catalog.is_window
	IsAisle     bool      // seat_catalog.is_aisle
	IsExitRow   bool      // seat_catalog.is_exit_row
	CreatedAt   time.Time // seat_catalog.created_at
}

// SeatClass is the cabin class a catalog seat belongs to.  Fare ledger
// entries count availability per (flight schedule, seat class) pair.
//
// Fields:
//  ID   – primary key identifier.
//  Code – short code such as "ECO", "BUS", "FST".
//  Name – human readable name.
type SeatClass struct {
	ID   uint64 // seat_classes.id
	Code string // seat_classes.code
	Name string // seat_classes.name
}
