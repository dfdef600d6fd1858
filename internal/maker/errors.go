package maker

import (
	"errors"

	"miimaker/internal/clients/generator"
)

var (
	ErrBusy     = errors.New("a generation is already in progress")
	ErrClosed   = errors.New("session closed")
	ErrNoResult = errors.New("no generated mii to save")
)

const (
	MsgInvalidFile   = "Please select a valid image file (JPG, PNG)"
	MsgInvalidDrop   = "Please drop a valid image file"
	MsgNoSelection   = "Please select an image first"
	MsgSafetyFilter  = "Image rejected due to safety filters. Try using a different picture."
	MsgGenerateFail  = "Failed to generate Mii."
	MsgTransportFail = "Failed to generate Mii. Please try again."
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindRejection
	KindServer
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRejection:
		return "rejection"
	case KindServer:
		return "server"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is the user-facing failure shown by a session. Message is what the
// page displays; Err keeps the cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// classify maps a generator failure onto the message policy of the page.
func classify(err error) *Error {
	var genErr *generator.Error
	if !errors.As(err, &genErr) || genErr.Transport() {
		return &Error{Kind: KindTransport, Message: MsgTransportFail, Err: err}
	}
	if genErr.Moderation() {
		return &Error{Kind: KindRejection, Message: MsgSafetyFilter, Err: err}
	}
	msg := genErr.Message
	if msg == "" {
		msg = MsgGenerateFail
	}
	return &Error{Kind: KindServer, Message: msg, Err: err}
}
