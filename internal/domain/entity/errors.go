package entity

import "fmt"

// ValidationError reports an upload the caller can correct: wrong size,
// format or dimensions.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// DecodeError reports bytes that could not be read as an image.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ClassifierError reports an inference failure or an unusable model.
type ClassifierError struct {
	Reason string
	Err    error
}

func (e *ClassifierError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ClassifierError) Unwrap() error { return e.Err }

// StorageError reports an artifact read or write failure.
type StorageError struct {
	Name     string
	NotFound bool
	Err      error
}

func (e *StorageError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("artifact %s not found", e.Name)
	}
	return fmt.Sprintf("artifact %s: %v", e.Name, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
