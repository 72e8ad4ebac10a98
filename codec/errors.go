package codec

import "errors"

// Decoder errors (§4.2 "Decoder"). Once the decoder enters the error
// state it emits no further instructions (ErrIsInErrorState on every
// subsequent Feed).
var (
	ErrInvalidCharacter = errors.New("codec: invalid character")
	ErrMissingCharacter  = errors.New("codec: missing character")
	ErrBadNumber         = errors.New("codec: bad number")
	ErrUnknownColorType  = errors.New("codec: unknown color type")
	ErrNotReady          = errors.New("codec: not ready")
	ErrIsInErrorState    = errors.New("codec: decoder is in error state")
)
