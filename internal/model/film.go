package model

// Film is external reference data for the rental engine. The engine reads
// the rental rate and duration at creation time and never writes back.
//
// Fields:
//  FilmID         - primary key identifier.
//  Title          - display title.
//  RentalRate     - canonical per-period price; the amount of every new
//                   rental is fixed from this value at creation.
//  RentalDuration - rental window length in days.
type Film struct {
	FilmID         int64   // film.film_id
	Title          string  // film.title
	RentalRate     float64 // film.rental_rate
	RentalDuration int     // film.rental_duration
}

// Inventory is one physical copy of a film held by a store. Availability is
// derived from the rental ledger, never stored on this row.
//
// Fields:
//  InventoryID - primary key identifier.
//  FilmID      - film this copy belongs to.
//  StoreID     - owning store.
type Inventory struct {
	InventoryID int64 // inventory.inventory_id
	FilmID      int64 // inventory.film_id
	StoreID     int64 // inventory.store_id
}
