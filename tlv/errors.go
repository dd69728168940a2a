package tlv

import (
	"errors"
	"math"
)

var (
	errMissingIdentifier = errors.New("missing identifier octet")
	errMissingLength     = errors.New("missing length octet")
	errIndefiniteLength  = errors.New("indefinite length not supported")
	errReservedLength    = errors.New("reserved length octet 0xFF")
	errShortLength       = errors.New("truncated length octets")
	errLengthTooLarge    = errors.New("length too large")
)

// maxLength is the largest length that can be decoded.
const maxLength = math.MaxInt
