package picture

import "fmt"

// ValidationError rejects an upload before any side effect happens. The
// message is safe to surface to the client as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DispatchError signals that the picture row and its temporary file were
// created but the processing job could not be enqueued. Both deliberately
// remain on disk and in the database; the orphan sweep reclaims them.
type DispatchError struct {
	PictureID uint
	Err       error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("picture %d: enqueue processing: %v", e.PictureID, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// StorageError wraps a filesystem failure during ingestion or deletion.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
