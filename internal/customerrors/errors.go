package customerrors

import "errors"

var (
	// ErrDataUnavailable means no tradable history exists for the symbol and window.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrMalformedCommand means a chat command is missing required arguments.
	ErrMalformedCommand = errors.New("malformed command")
	// ErrRender means chart or document assembly failed for a reason other than missing data.
	ErrRender = errors.New("render failure")
	// ErrDelivery means the messaging provider rejected or failed an outbound send.
	ErrDelivery = errors.New("delivery failure")
)
