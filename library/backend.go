package library

// Backend persists a Store snapshot between runs.
//
// Load returns whatever could be read plus per-record diagnostics; the error
// result is reserved for a backend that cannot be used at all. Save replaces
// the stored state with snap and may return non-fatal diagnostics.
type Backend interface {
	Load() (Snapshot, []error, error)
	Save(snap Snapshot) ([]error, error)
	Close() error
}
