package model

import "time"

// Customer is external reference data; the rental engine reads it to
// validate ownership and to aggregate stats, but never mutates it.
//
// Fields:
//  CustomerID - primary key identifier.
//  FirstName  - given name.
//  LastName   - family name.
//  Email      - contact address.
//  Active     - soft-delete flag; inactive customers cannot rent.
//  CreateDate - when the customer record was created.
type Customer struct {
	CustomerID int64     // customer.customer_id
	FirstName  string    // customer.first_name
	LastName   string    // customer.last_name
	Email      string    // customer.email
	Active     bool      // customer.active
	CreateDate time.Time // customer.create_date
}
