package pdu

import "errors"

var (
	// ErrTruncated indicates a PDU was shorter than its declared or fixed length.
	ErrTruncated = errors.New("pdu: truncated frame")
	// ErrUnknownType indicates a PDU carried a type code this decoder does not recognize.
	ErrUnknownType = errors.New("pdu: unknown type code")
	// ErrOutOfRange indicates a field value fell outside its protocol-defined range.
	ErrOutOfRange = errors.New("pdu: field value out of range")
)
