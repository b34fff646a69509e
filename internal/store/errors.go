package store

import "errors"

// Sentinel errors returned by backend methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrStorageUnavailable is returned when the embedded database file
	// cannot be opened or schema migration fails. Fatal at startup: the
	// process cannot proceed without its local store.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNetworkUnavailable is returned by the remote backend when a query
	// fails due to connectivity. Recovered at the repository boundary;
	// retry policy is a caller concern.
	ErrNetworkUnavailable = errors.New("network unavailable")

	// ErrEntryNotFound is returned when an operation targets an entry that
	// does not exist in the active backend.
	ErrEntryNotFound = errors.New("entry was not found")

	// ErrTagNotFound is returned when an operation targets a tag that does
	// not exist, including dangling tag ids passed to entry creation.
	ErrTagNotFound = errors.New("tag was not found")

	// ErrMediaNotFound is returned when a sync confirmation targets a media
	// row that does not exist in the active backend.
	ErrMediaNotFound = errors.New("media was not found")

	// ErrDuplicateTagName is returned when creating a tag whose name
	// already exists. Name comparison is case-insensitive.
	ErrDuplicateTagName = errors.New("tag name already exists")

	// ErrConstraintViolation is returned when a storage constraint other
	// than the ones above is violated (duplicate junction pair, level
	// outside the checked range, invalid media type).
	ErrConstraintViolation = errors.New("storage constraint violated")

	// ErrUnknownBackend is returned by the backend selector when the
	// configured mode is not one of sqlite, remote or memory.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Low-level database operation errors. These are returned (or wrapped) by
// backend methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommittingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back.
	ErrCommittingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan rows")
)

// ConstraintKind classifies a driver-level error into the constraint class
// it violated, letting call sites map it to a domain sentinel.
type ConstraintKind int

const (
	// KindNone means the error is not a recognised constraint violation.
	KindNone ConstraintKind = iota
	// KindUniqueViolation is a duplicate key on a unique column or index.
	KindUniqueViolation
	// KindForeignKeyViolation is a reference to a missing parent row.
	KindForeignKeyViolation
	// KindCheckViolation is a CHECK constraint failure (e.g. level range).
	KindCheckViolation
)
