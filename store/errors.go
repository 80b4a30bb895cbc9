package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// Kind classifies gateway failures so callers can branch without parsing
// messages.
type Kind int

const (
	// KindUnavailable covers transport, authentication and any storage
	// failure that is not one of the kinds below.
	KindUnavailable Kind = iota
	// KindNotFound means no row matched the requested key or filter.
	KindNotFound
	// KindConstraint means the write violated a uniqueness, required-field
	// or reference rule.
	KindConstraint
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindConstraint:
		return "constraint-violation"
	default:
		return "connectivity-failure"
	}
}

// Error is returned by every Store operation.
type Error struct {
	Kind Kind
	Op   string // what the store tried to do, e.g. "retrieve set"
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("failed to %s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of err. Errors not produced by the store are
// treated as KindUnavailable.
func KindOf(err error) Kind {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Kind
	}
	return KindUnavailable
}

// IsNotFound is shorthand for KindOf(err) == KindNotFound.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

func notFound(op, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func constraint(op, msg string) *Error {
	return &Error{Kind: KindConstraint, Op: op, Msg: msg}
}

// wrap converts a gorm or driver error into an *Error.
func wrap(op string, err error) *Error {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Op: op, Msg: "record not found", Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: KindConstraint, Op: op, Msg: "a record with this key already exists", Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &Error{Kind: KindConstraint, Op: op, Msg: "the referenced theme does not exist", Err: err}
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &Error{Kind: KindConstraint, Op: op, Msg: "one or more values do not meet required conditions", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return &Error{Kind: KindConstraint, Op: op, Msg: pgConstraintMessage(pgErr), Err: err}
	}

	// sqlite reports constraint failures as "<KIND> constraint failed: table.column"
	if strings.Contains(err.Error(), "constraint failed") {
		return &Error{Kind: KindConstraint, Op: op, Msg: err.Error(), Err: err}
	}

	return &Error{Kind: KindUnavailable, Op: op, Err: err}
}

// pgConstraintMessage phrases integrity violations (SQLSTATE class 23)
// that gorm does not translate.
func pgConstraintMessage(pgErr *pgconn.PgError) string {
	switch pgErr.Code {
	case "23502": // not_null_violation
		if pgErr.ColumnName != "" {
			return fmt.Sprintf("the %s is required", humanize(pgErr.ColumnName))
		}
		return "a required field is missing"
	case "23505":
		return "a record with this key already exists"
	default:
		return pgErr.Message
	}
}

// humanize turns a column name like num_parts into "Num Parts".
func humanize(column string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(column, "_", " "))
}
