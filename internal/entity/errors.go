package entity

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrConflict        = errors.New("record conflicts with an existing one")
	ErrNotPending      = errors.New("request is no longer pending")
	ErrSessionNotFound = errors.New("session not found")
)
