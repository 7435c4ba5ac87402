package apperr

import "errors"

var (
	ErrInvalidValue      = errors.New("invalid value")
	ErrResourceNotFound  = errors.New("resource not found")
	ErrDuplicate         = errors.New("duplicate found")
	ErrInvalidToken      = errors.New("invalid token")
	ErrPrincipalNotFound = errors.New("user not found")
	ErrBadCredentials    = errors.New("bad credentials")
	ErrUnauthenticated   = errors.New("unauthenticated")
)

// Error carries a failure kind (one of the sentinels above) together with a
// message that is safe to show to the client.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind error, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Message returns the client-facing message of err, or def when err does not
// carry one.
func Message(err error, def string) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return def
}

const (
	NameMandatoryMessage        = "Name cannot be null, blank, or empty. Should be of 64 characters max."
	NameMaxLengthMessage        = "Maximum length for name is 64 characters."
	DescriptionMaxLengthMessage = "Maximum length for description is 256 characters."
	DescriptionMandatoryMessage = "Description cannot be null. Should be of 256 characters max."
	DuplicateEntryMessage       = "Duplicate entry found for name: "
	UUIDMandatoryMessage        = "UUID cannot be null, blank, or empty. Should be a valid UUID of 36 characters."
	UUIDInvalidMessage          = "Provided UUID is not valid. Should be a valid UUID of 36 characters."
	MissingFieldForUpdate       = "Either task description or task status or both can be updated. Please provide a value to update."
	InvalidStatusMessage        = "Provided value for task status is invalid. Allowed values are COMPLETED, IN_PROGRESS or PENDING."
	TaskListNotFoundMessage     = "Task List with provided uuid either does not exist or has been deleted."
	TaskNotFoundMessage         = "Task with provided uuid either does not exist or has been deleted."
	InvalidTokenMessage         = "The token is invalid."
	BadCredentialsMessage       = "Incorrect username or password"
	UserNotFoundMessage         = "User not found!"
)
