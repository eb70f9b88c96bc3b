// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/cmd"

var cmds *cmd.Tree

var cmdList []cmd.Command

func init() {
	cmdList = []cmd.Command{
		{
			Name:        "help",
			Brief:       "Display command help",
			Description: "Display help for a command.",
			Usage:       "help [<command>]",
			Data:        (*Host).cmdHelp,
		},
		{
			Name:  "origin",
			Brief: "Set the program load address",
			Description: "Set the address at which the program expects to be" +
				" loaded. Call instructions emit absolute addresses computed" +
				" from this origin, so it may be changed only before any code" +
				" has been emitted.",
			Usage: "origin <address>",
			Data:  (*Host).cmdOrigin,
		},
		{
			Name:  "define",
			Brief: "Define a named subroutine",
			Description: "Bind a subroutine name to the current code offset and" +
				" open a block. Blocks nest; close the innermost open block" +
				" with 'end'. The first definition of a name is permanent:" +
				" defining it again keeps the original offset.",
			Usage: "define <name>",
			Data:  (*Host).cmdDefine,
		},
		{
			Name:  "end",
			Brief: "Close the innermost open block",
			Description: "Close the block opened by the most recent 'define'." +
				" Subroutine offsets are absolute, so closing a block changes" +
				" nothing but the prompt.",
			Usage: "end",
			Data:  (*Host).cmdEnd,
		},
		{
			Name:  "call",
			Brief: "Call a defined subroutine",
			Description: "Emit a JSR to the absolute address of a previously" +
				" defined subroutine. Subroutines defined later in the session" +
				" cannot be called; definitions must appear before use.",
			Usage: "call <name>",
			Data:  (*Host).cmdCall,
		},
		{
			Name:  "bytes",
			Brief: "Emit literal data bytes",
			Description: "Append literal bytes to the code buffer. The" +
				" argument is a string of hexadecimal digit pairs, e.g." +
				" 'bytes A9FF60'.",
			Usage: "bytes <hex>",
			Data:  (*Host).cmdBytes,
		},
		{
			Name:  "dump",
			Brief: "Dump code buffer contents",
			Description: "Dump the contents of the code buffer starting from" +
				" the specified offset. The number of bytes to dump may be" +
				" specified as an option. If no offset is specified, the dump" +
				" continues from where the last dump left off.",
			Usage: "dump [<offset>] [<bytes>]",
			Data:  (*Host).cmdDump,
		},
		{
			Name:  "symbols",
			Brief: "List defined subroutines",
			Description: "Display the name and absolute address of every" +
				" subroutine defined so far.",
			Usage: "symbols",
			Data:  (*Host).cmdSymbols,
		},
		{
			Name:  "save",
			Brief: "Save the assembled binary",
			Description: "Write the assembled code to a binary file and the" +
				" symbol table to an accompanying .sym file.",
			Usage: "save <filename>",
			Data:  (*Host).cmdSave,
		},
		{
			Name:  "reset",
			Brief: "Discard the session",
			Description: "Discard all emitted code and defined subroutines and" +
				" begin a fresh assembly session at the same origin.",
			Usage: "reset",
			Data:  (*Host).cmdReset,
		},
		{
			Name:  "set",
			Brief: "Set a configuration variable",
			Description: "Set the value of a configuration variable. Type the" +
				" set command without a variable name or value to display the" +
				" current values of all configuration variables.",
			Usage: "set [<var> <value>]",
			Data:  (*Host).cmdSet,
		},
		{
			Name:        "quit",
			Brief:       "Quit the monitor",
			Description: "Quit the monitor.",
			Usage:       "quit",
			Data:        (*Host).cmdQuit,
		},
	}

	cmds = cmd.NewTree("go65c02")
	for _, d := range cmdList {
		cmds.AddCommand(d)
	}
}
