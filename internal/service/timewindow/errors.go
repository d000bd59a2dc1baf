package timewindow

import "errors"

var (
	ErrMalformedRange   = errors.New("time range does not split into start and end")
	ErrUnrecognizedTime = errors.New("unrecognized time format")
)
