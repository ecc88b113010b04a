package feedback

import (
	"fmt"
	"os"
)

// Persister writes an attachment to path, replacing whatever is there.
type Persister interface {
	Persist(blob []byte, path string) error
}

// PersisterFunc adapts a function to Persister.
type PersisterFunc func(blob []byte, path string) error

// Persist calls f.
func (f PersisterFunc) Persist(blob []byte, path string) error { return f(blob, path) }

// FileWriter persists attachments to the local filesystem. It does not create
// missing directories.
type FileWriter struct {
	Perm os.FileMode
}

// Persist overwrites path with blob.
func (w FileWriter) Persist(blob []byte, path string) error {
	perm := w.Perm
	if perm == 0 {
		perm = 0o644
	}
	if err := os.WriteFile(path, blob, perm); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// WriteError reports a failed attachment write.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write feedback attachment %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
