// Package codec defines the on-disk record format: a tagged,
// self-delimiting textual encoding for Set and Remove commands. The wire
// protocol uses its own message types (internal/proto).
package codec

import (
	"encoding/json"
	"fmt"
)

// CommandType tags which variant a Command holds.
type CommandType string

const (
	CommandSet    CommandType = "set"
	CommandRemove CommandType = "remove"
)

// Command is a tagged union over the two record kinds the log stores.
// Val is ignored (and omitted on encode) for CommandRemove.
type Command struct {
	Type CommandType
	Key  string
	Val  string
}

// NewSet builds a Set command.
func NewSet(key, val string) Command {
	return Command{Type: CommandSet, Key: key, Val: val}
}

// NewRemove builds a Remove command.
func NewRemove(key string) Command {
	return Command{Type: CommandRemove, Key: key}
}

// wireCommand is the JSON shape Command marshals to/from. Keeping it
// separate from Command avoids recursive MarshalJSON calls.
type wireCommand struct {
	Type CommandType `json:"type"`
	Key  string      `json:"key"`
	Val  string      `json:"val,omitempty"`
}

// MarshalJSON encodes c as a tagged JSON object. Encoding is deterministic
// and total over all string payloads, including arbitrary Unicode and
// embedded quotes, because encoding/json escapes them.
func (c Command) MarshalJSON() ([]byte, error) {
	w := wireCommand{Type: c.Type, Key: c.Key}
	if c.Type == CommandSet {
		w.Val = c.Val
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a tagged JSON object into c.
func (c *Command) UnmarshalJSON(data []byte) error {
	var w wireCommand
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case CommandSet, CommandRemove:
	default:
		return fmt.Errorf("codec: unknown command type %q", w.Type)
	}
	c.Type = w.Type
	c.Key = w.Key
	c.Val = w.Val
	return nil
}
