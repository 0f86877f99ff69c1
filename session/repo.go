package session

// Repo persists the session between process runs. All operations are
// whole-value: Save replaces the stored session completely and Clear removes
// it, so a concurrent reader always observes a fully-formed session.
type Repo interface {
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}
