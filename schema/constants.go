package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the report output.
	OutputMode string

	// Orientation represents the axis assignment of a detector pass.
	Orientation string

	// DatabaseBackend represents the backend for run-history tracking.
	DatabaseBackend string
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// Axis orientations. Regression residuals are not symmetric under an axis
// swap, so the two orientations can flag different points.
const (
	OrientationXY Orientation = "x->y" // fit y against x (conventional)
	OrientationYX Orientation = "y->x" // fit x against y (swapped)
)

// All history backends supported.
const (
	SQLiteBackend DatabaseBackend = "sqlite"
	NoneBackend   DatabaseBackend = "none" // default
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend: {},
	NoneBackend:   {},
}
