package database

// Database defines the interface of a database that can begin
// transactions and close itself.
//
// Important: this is not part of the DataAccessor interface
// because the Begin function is not compatible with Transaction.
type Database interface {
	DataAccessor

	// Begin begins a new database transaction.
	Begin() (Transaction, error)

	// Compact compacts the database instance.
	Compact() error

	// Close closes the database.
	Close() error
}
