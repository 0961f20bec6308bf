package game

import "errors"

var (
	ErrBlankSessionID  = errors.New("session id must not be blank")
	ErrMissingPlayer   = errors.New("run requires a player")
	ErrMissingPool     = errors.New("run requires a word pool")
	ErrRequestPending  = errors.New("interaction already has a pending request")
	ErrGameMasterCount = errors.New("session must have exactly one game master among active players")
)
