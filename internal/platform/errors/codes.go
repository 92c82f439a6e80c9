// Package errors provides coded domain errors shared across studyforge.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeNumericIntegrity reports a NaN or infinite value reaching a read model.
	// It always indicates a bug in an upstream model, never user input.
	CodeNumericIntegrity Code = "NUMERIC_INTEGRITY"

	// Snapshot errors
	CodeSnapshotInvalid Code = "SNAPSHOT_INVALID"
	CodeSnapshotVersion Code = "SNAPSHOT_UNSUPPORTED_VERSION"

	// Load errors
	CodeCatalogInvalid Code = "CATALOG_INVALID"
	CodeTuningInvalid  Code = "TUNING_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// String returns the code value.
func (c Code) String() string {
	return string(c)
}
