package repository

import "errors"

var (
	ErrGameRecordNotFound = errors.New("game record not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrDatabase           = errors.New("database error")
)
