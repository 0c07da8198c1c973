package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/blaseref/pkg/model"
)

// Sentinel kinds for client errors. Match them with errors.Is.
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrMissingArgument      = errors.New("missing argument")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrHTTP                 = errors.New("http error")
	ErrDecode               = model.ErrDecode
	ErrStreamConsumed       = errors.New("event stream already consumed")
)

// Error records the accessor that failed and the kind of failure.
type Error struct {
	Op   string // e.g. "client.events"
	Kind error  // one of the sentinels above
	Err  error  // underlying detail, may be nil
}

// NewKind returns an Error of the given kind with no further detail.
func NewKind(op string, kind error) *Error {
	return &Error{Op: op, Kind: kind}
}

// Wrap attaches op to err. The kind is inferred from the sentinels err
// already matches. Errors that are already *Error are returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Op: op, Kind: kindOf(err), Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Kind == nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err == nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	case errors.Is(e.Err, e.Kind):
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func invalidArgument(op, format string, args ...any) error {
	return &Error{Op: op, Kind: ErrInvalidArgument, Err: fmt.Errorf(format, args...)}
}

func missingArgument(op, format string, args ...any) error {
	return &Error{Op: op, Kind: ErrMissingArgument, Err: fmt.Errorf(format, args...)}
}

func kindOf(err error) error {
	for _, kind := range []error{
		ErrInvalidArgument, ErrMissingArgument, ErrConfirmationRequired,
		ErrHTTP, ErrDecode, ErrStreamConsumed,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// HTTPError is returned for any non-2xx response. The body is kept as text
// for diagnostics and never decoded. BodyErr is set when the body could not
// be read in full, in which case Body holds only what arrived.
type HTTPError struct {
	Endpoint   string
	StatusCode int
	Status     string
	Body       string
	BodyErr    error
}

func (e *HTTPError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: %s: %s", ErrHTTP, e.Endpoint, status)
}

// Is makes errors.Is(err, ErrHTTP) hold for every HTTPError.
func (e *HTTPError) Is(target error) bool {
	return target == ErrHTTP
}

// wrapDecode attaches op to decode failures. Connection errors met while
// reading the body pass through unwrapped.
func wrapDecode(op string, err error) error {
	if errors.Is(err, ErrDecode) {
		return Wrap(op, err)
	}
	return err
}
