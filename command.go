// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package retree

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Command identifies one of the tree commands.
type Command int8

// The tree commands.
const (
	CmdInit Command = iota
	CmdGet
	CmdDel
	CmdGetSubtree
	CmdSetSubtree
	CmdDelSubtree
	CmdGetAncestors
	CmdGetDescendants
	CmdGetFather
	CmdGetChildren
	numCommands
)

// commandInfo describes each command. It is kept apart from commandExec,
// whose entries call back into the DB.
var commandInfo = [numCommands]struct {
	name string
	// args is the number of arguments following the command name.
	args    int
	mutates bool
}{
	CmdInit:           {name: "tree.init", args: 2, mutates: true},
	CmdGet:            {name: "tree.get", args: 1},
	CmdDel:            {name: "tree.del", args: 1, mutates: true},
	CmdGetSubtree:     {name: "tree.get_subtree", args: 2},
	CmdSetSubtree:     {name: "tree.set_subtree", args: 3, mutates: true},
	CmdDelSubtree:     {name: "tree.del_subtree", args: 2, mutates: true},
	CmdGetAncestors:   {name: "tree.get_ancestors", args: 2},
	CmdGetDescendants: {name: "tree.get_descendants", args: 2},
	CmdGetFather:      {name: "tree.get_father", args: 2},
	CmdGetChildren:    {name: "tree.get_children", args: 2},
}

var commandExec = [numCommands]func(d *DB, args []string) (Value, error){
	CmdInit: func(d *DB, args []string) (Value, error) {
		if err := d.Init([]byte(args[0]), args[1]); err != nil {
			return Value{}, err
		}
		return OK, nil
	},
	CmdGet: func(d *DB, args []string) (Value, error) {
		s, ok, err := d.Get([]byte(args[0]))
		if err != nil || !ok {
			return Nil, err
		}
		return StringValue(s), nil
	},
	CmdDel: func(d *DB, args []string) (Value, error) {
		deleted, err := d.Del([]byte(args[0]))
		if err != nil || !deleted {
			return Nil, err
		}
		return OK, nil
	},
	CmdGetSubtree: func(d *DB, args []string) (Value, error) {
		return stringResult(d.GetSubtree([]byte(args[0]), args[1]))
	},
	CmdSetSubtree: func(d *DB, args []string) (Value, error) {
		if err := d.SetSubtree([]byte(args[0]), args[1], args[2]); err != nil {
			return Value{}, err
		}
		return OK, nil
	},
	CmdDelSubtree: func(d *DB, args []string) (Value, error) {
		return stringResult(d.DelSubtree([]byte(args[0]), args[1]))
	},
	CmdGetAncestors: func(d *DB, args []string) (Value, error) {
		return arrayResult(d.GetAncestors([]byte(args[0]), args[1]))
	},
	CmdGetDescendants: func(d *DB, args []string) (Value, error) {
		return arrayResult(d.GetDescendants([]byte(args[0]), args[1]))
	},
	CmdGetFather: func(d *DB, args []string) (Value, error) {
		return stringResult(d.GetFather([]byte(args[0]), args[1]))
	},
	CmdGetChildren: func(d *DB, args []string) (Value, error) {
		return arrayResult(d.GetChildren([]byte(args[0]), args[1]))
	},
}

func stringResult(s string, err error) (Value, error) {
	if err != nil {
		return Value{}, err
	}
	return StringValue(s), nil
}

func arrayResult(labels []string, err error) (Value, error) {
	if err != nil {
		return Value{}, err
	}
	return ArrayValue(labels), nil
}

// String returns the command name, e.g. "tree.get".
func (c Command) String() string {
	if c < 0 || c >= numCommands {
		return fmt.Sprintf("Command(%d)", int8(c))
	}
	return commandInfo[c].name
}

// SafeFormat implements redact.SafeFormatter.
func (c Command) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Print(redact.SafeString(c.String()))
}

func (c Command) mutates() bool {
	return commandInfo[c].mutates
}

// ParseCommand returns the command with the given name. Names are matched
// case-insensitively.
func ParseCommand(name string) (Command, bool) {
	for c := Command(0); c < numCommands; c++ {
		if strings.EqualFold(name, commandInfo[c].name) {
			return c, true
		}
	}
	return 0, false
}

// Exec runs the command in args[0] with the arguments args[1:]. For example:
//
//	v, err := db.Exec([]string{"tree.get_children", "hello", "0"})
//
// Errors carry a descriptive message; see the Err* variables for the
// conditions that can be matched with errors.Is.
func (d *DB) Exec(args []string) (Value, error) {
	if len(args) == 0 {
		return Value{}, errors.New("retree: empty command")
	}
	c, ok := ParseCommand(args[0])
	if !ok {
		return Value{}, errors.Newf("unknown command '%s'", args[0])
	}
	if len(args)-1 != commandInfo[c].args {
		return Value{}, errors.Newf("wrong number of arguments for '%s' command", c)
	}
	return commandExec[c](d, args[1:])
}
