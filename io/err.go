package io

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Image errors
	ErrImageSize = errors.New(f("image too large"))
)

// ErrImageLine indicates the line of an image that could not be read.
type ErrImageLine struct {
	LineNo int
	Err    error
}

func (err *ErrImageLine) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrImageLine) Unwrap() error {
	return err.Err
}
