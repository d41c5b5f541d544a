package core

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidCommand is returned when an input symbol is not a known command.
var ErrInvalidCommand = errors.New("invalid command")

// Command is a single input symbol applied at the next tick boundary.
// Lowercase commands move the avatar, uppercase commands are actions.
type Command rune

const (
	CmdNone     Command = 0
	CmdUp       Command = 'w'
	CmdLeft     Command = 'a'
	CmdDown     Command = 's'
	CmdRight    Command = 'd'
	CmdDetonate Command = 'A' // remote-trigger the oldest bomb
	CmdPlace    Command = 'B' // place a bomb at the avatar position
)

// ParseCommand turns a transport key string into a Command.
// Only the first character is significant; the empty string means no input.
func ParseCommand(key string) (Command, error) {
	if key == "" {
		return CmdNone, nil
	}
	r, _ := utf8.DecodeRuneInString(key)
	c := Command(r)
	if !c.Valid() {
		return CmdNone, fmt.Errorf("%w: %q (valid keys: w,a,s,d,A,B)", ErrInvalidCommand, key)
	}
	return c, nil
}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	switch c {
	case CmdNone, CmdUp, CmdLeft, CmdDown, CmdRight, CmdDetonate, CmdPlace:
		return true
	}
	return false
}

// Direction returns the movement direction for a lowercase command.
func (c Command) Direction() Direction {
	switch c {
	case CmdUp, CmdLeft, CmdDown, CmdRight:
		return Direction(c)
	}
	return DirNone
}

// Key returns the wire symbol for the command.
func (c Command) Key() string {
	if c == CmdNone {
		return ""
	}
	return string(rune(c))
}
