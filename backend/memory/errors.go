package memory

import (
	"errors"

	"entgo.io/ent/dialect/sql/sqlgraph"
)

// NotFoundError is returned when a requested entity does not exist.
type NotFoundError struct {
	label string
}

func (e *NotFoundError) Error() string {
	return "memory: " + e.label + " not found"
}

func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e)
}

// ConstraintError wraps a violated unique or foreign key constraint.
type ConstraintError struct {
	msg  string
	wrap error
}

func (e *ConstraintError) Error() string {
	return "memory: constraint failed: " + e.msg
}

func (e *ConstraintError) Unwrap() error {
	return e.wrap
}

func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConstraintError
	return errors.As(err, &e)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var e *ConstraintError
	if errors.As(err, &e) {
		return sqlgraph.IsUniqueConstraintError(e.wrap)
	}
	return sqlgraph.IsUniqueConstraintError(err)
}

func constraintError(err error) error {
	if err == nil {
		return nil
	}
	if sqlgraph.IsConstraintError(err) {
		return &ConstraintError{msg: err.Error(), wrap: err}
	}
	return err
}

func notFound(label string) error {
	return &NotFoundError{label: label}
}
