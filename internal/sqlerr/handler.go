package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/deppfellow/meetapp/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MsgServiceBusy is served for transient database failures.
const MsgServiceBusy = "The service is busy, please retry"

// constraintMessages pins the wording of constraints clients match on.
var constraintMessages = map[string]string{
	"users_email_key":           "User already exists",
	"meetups_organizer_id_fkey": "The referenced organizer does not exist",
}

// codeActions is the "<DOMAIN>_<ACTION>" suffix per violation.
var codeActions = map[Code]string{
	ForeignKeyViolation: "NOT_FOUND",
	UniqueViolation:     "ALREADY_EXISTS",
	NotNullViolation:    "REQUIRED",
	CheckViolation:      "INVALID",
}

// tableMarker is how repositories name the table in wrapped errors:
// "... from table:meetups for meetup_id=7: ...".
var (
	tableMarker     = regexp.MustCompile(`table:([a-z_]+)`)
	uniqueKeySuffix = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)
	titleCaser      = cases.Title(language.English)
)

func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// HandleError converts a database error into the *errs.HTTPError served to
// the client:
//
//   - an *errs.HTTPError anywhere in the chain is returned unchanged
//   - constraint violations become 400s with a readable message
//   - connection exhaustion and deadlocks become 503s
//   - no rows becomes a 404 naming the table's entity
//   - anything else is a generic 500
//
// A signup that loses the race on users_email_key therefore gets the same
// "User already exists" the email-unique rule produces.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fromPgError(ConvertPgError(pgErr))
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		if m := tableMarker.FindStringSubmatch(err.Error()); m != nil {
			return errs.NewNotFoundError(entityName(m[1], "")+" not found", true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}

func fromPgError(sqlErr *Error) *errs.HTTPError {
	switch sqlErr.Code {
	case TooManyConnections, DeadlockDetected:
		return errs.NewRejection(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", MsgServiceBusy)

	case ForeignKeyViolation, UniqueViolation, CheckViolation, NotNullViolation:
		code := errorCode(sqlErr.TableName, sqlErr.Code)

		var fieldErrors []errs.FieldError
		if sqlErr.Code == NotNullViolation {
			fieldErrors = []errs.FieldError{{Field: strings.ToLower(sqlErr.ColumnName), Error: "is required"}}
		}

		// Foreign keys name rows the client cannot see, so the text stays internal.
		override := sqlErr.Code != ForeignKeyViolation

		return errs.NewBadRequestError(clientMessage(sqlErr), override, &code, fieldErrors, nil)

	default:
		return errs.NewInternalServerError()
	}
}

// errorCode builds "<DOMAIN>_<ACTION>": users + unique violation is
// USER_ALREADY_EXISTS.
func errorCode(tableName string, code Code) string {
	domain := "RECORD"
	if tableName != "" {
		domain = strings.ToUpper(singular(tableName))
	}

	action, ok := codeActions[code]
	if !ok {
		action = "ERROR"
	}

	return domain + "_" + action
}

func clientMessage(sqlErr *Error) string {
	if msg, ok := constraintMessages[sqlErr.ConstraintName]; ok {
		return msg
	}

	entity := entityName(sqlErr.TableName, sqlErr.ColumnName)
	field := humanize(sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entity)

	case UniqueViolation:
		identifier := "identifier"
		if column := uniqueColumn(sqlErr.ConstraintName); column != "" {
			identifier = humanize(column)
		}
		return fmt.Sprintf("A %s with this %s already exists", entity, identifier)

	case NotNullViolation:
		if field == "" {
			field = "field"
		}
		return fmt.Sprintf("The %s is required", field)

	case CheckViolation:
		if field != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", field)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// entityName prefers a referenced column ("organizer_id" -> "Organizer"),
// then the singular table ("meetups" -> "Meetup").
func entityName(tableName, columnName string) string {
	column := strings.ToLower(columnName)
	if entity, ok := strings.CutSuffix(column, "_id"); ok && entity != "" {
		return humanize(entity)
	}
	if tableName != "" {
		return humanize(singular(tableName))
	}
	return "record"
}

func singular(name string) string {
	if len(name) > 1 {
		return strings.TrimSuffix(strings.TrimSuffix(name, "s"), "S")
	}
	return name
}

// humanize: "banner_ref" -> "Banner Ref".
func humanize(text string) string {
	return titleCaser.String(strings.ReplaceAll(text, "_", " "))
}

// uniqueColumn reads the column from "unique_<table>_<column>" or
// "<table>_<column>_key" constraint names.
func uniqueColumn(constraintName string) string {
	if rest, ok := strings.CutPrefix(constraintName, "unique_"); ok {
		if parts := strings.Split(rest, "_"); len(parts) >= 2 {
			return parts[len(parts)-1]
		}
	}

	if m := uniqueKeySuffix.FindStringSubmatch(constraintName); m != nil {
		return m[1]
	}

	return ""
}
