package domain

import "errors"

// ErrMalformed is returned when a description token cannot be decoded.
var ErrMalformed = errors.New("malformed description")

// ErrTruncated is returned when a description ends before all expected tokens were read.
var ErrTruncated = errors.New("truncated description")

// ErrUnknownMarker is returned when a transition row starts with a marker other than "L" or "N".
var ErrUnknownMarker = errors.New("unknown row marker")

// ErrInvalidDefinition is returned when the tables of a definition are not internally consistent.
var ErrInvalidDefinition = errors.New("invalid definition")

// ErrNullCycle is returned when the Null links of a definition form a cycle.
var ErrNullCycle = errors.New("null chain cycle")

// ErrDescriptionNotFound is returned when a loader has no description under the requested name.
var ErrDescriptionNotFound = errors.New("description not found")
