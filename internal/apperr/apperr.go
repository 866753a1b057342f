package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind is the closed set of failure classes the API can answer with.
// Anything that doesn't carry a Kind classifies as Server.
type Kind int

const (
	Server Kind = iota // unexpected, detail stays server-side
	Client             // malformed / generic bad input
	File
	Validation // per-field messages
	Duplicate  // unique-constraint conflicts
	Authorization
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Client:
		return "ClientError"
	case File:
		return "FileError"
	case Validation:
		return "ValidationError"
	case Duplicate:
		return "DuplicateKeyError"
	case Authorization:
		return "AuthorizationError"
	case NotFound:
		return "NotFoundError"
	default:
		return "ServerError"
	}
}

// Error is the one error type resource operations return. Fields carries
// per-field detail for Validation and Duplicate kinds.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an Error of the given kind with a client-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewValidation builds a ValidationError from per-field messages.
func NewValidation(fields map[string]string) *Error {
	return &Error{Kind: Validation, Fields: fields}
}

// NewDuplicate builds a DuplicateKeyError with the standard "already taken"
// message for each conflicting field.
func NewDuplicate(fields ...string) *Error {
	msgs := make(map[string]string, len(fields))
	for _, f := range fields {
		msgs[f] = fmt.Sprintf("The %s you've entered is already taken.", strings.ToLower(FieldLabel(f)))
	}
	return &Error{Kind: Duplicate, Fields: msgs}
}

// NewAuthorization builds the one generic authorization failure. Every
// authorization-shaped fault uses this exact message so the caller can't
// tell which check tripped.
func NewAuthorization() *Error {
	return &Error{Kind: Authorization, Message: "You aren't authorized to perform this action."}
}

// Wrap tags an unexpected internal fault so the cause survives to the log.
func Wrap(err error) *Error {
	return &Error{Kind: Server, cause: err}
}

// KindOf reports the kind err classifies as.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Server
}

// GatewayError marks a fault that originated from a call to the Paymob
// payment gateway. It still answers the client as a generic ServerError;
// the label only enriches the log entry.
type GatewayError struct {
	Op  string
	Err error
}

func (g *GatewayError) Error() string { return fmt.Sprintf("paymob %s: %v", g.Op, g.Err) }
func (g *GatewayError) Unwrap() error { return g.Err }

// FieldLabel turns a JSON field key into its human label,
// e.g. "firstName" -> "First name", "isActive" -> "Is active".
func FieldLabel(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	label := b.String()
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// invalidFieldsMessage joins field keys into the canonical validation
// sentence, pluralizing "field" as needed.
func invalidFieldsMessage(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	noun := "field"
	if len(keys) != 1 {
		noun = "fields"
	}

	return fmt.Sprintf(
		"The information you've entered is invalid for the following %s: %s.",
		noun, strings.Join(keys, ", "),
	)
}
