// Copyright 2018 Brett Vickers.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/cmd"

// A command is the data stored with each node of the command tree.
type command struct {
	name    string
	brief   string
	usage   string
	desc    string
	handler func(h *Host, args []string) error
}

// A commandGroup lists the commands of a tree for the help display.
type commandGroup struct {
	title    string
	commands []*command
}

var (
	cmds   *cmd.Tree
	groups = make(map[*cmd.Tree]*commandGroup)
)

func addCommand(t *cmd.Tree, c *command) {
	t.AddCommand(cmd.CommandDescriptor{
		Name:        c.name,
		Brief:       c.brief,
		Description: c.desc,
		Usage:       c.usage,
		Data:        c,
	})
	g := groups[t]
	g.commands = append(g.commands, c)
}

func addSubtree(t *cmd.Tree, name, brief, title string) *cmd.Tree {
	sub := t.AddSubtree(cmd.TreeDescriptor{Name: name, Brief: brief})
	groups[sub] = &commandGroup{title: title}
	groups[t].commands = append(groups[t].commands, &command{name: name, brief: brief})
	return sub
}

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "sim6502"})
	groups[root] = &commandGroup{title: "Simulator"}

	addCommand(root, &command{
		name:    "help",
		brief:   "Display help for a command",
		desc:    "Display help for a command.",
		usage:   "help [<command>]",
		handler: (*Host).cmdHelp,
	})

	// Assemble commands
	as := addSubtree(root, "assemble", "Assemble commands", "Assemble")
	addCommand(as, &command{
		name:  "file",
		brief: "Assemble a file from disk and save the binary to disk",
		desc: "Run the cross-assembler on the specified file," +
			" producing a binary file and source map file if successful.",
		usage:   "assemble file <filename>",
		handler: (*Host).cmdAssembleFile,
	})

	// Breakpoint commands
	bp := addSubtree(root, "breakpoint", "Breakpoint commands", "Breakpoint")
	addCommand(bp, &command{
		name:    "list",
		brief:   "List breakpoints",
		desc:    "List all current breakpoints.",
		usage:   "breakpoint list",
		handler: (*Host).cmdBreakpointList,
	})
	addCommand(bp, &command{
		name:  "add",
		brief: "Add a breakpoint",
		desc: "Add a breakpoint at the specified address." +
			" The breakpoint starts enabled.",
		usage:   "breakpoint add <address>",
		handler: (*Host).cmdBreakpointAdd,
	})
	addCommand(bp, &command{
		name:    "remove",
		brief:   "Remove a breakpoint",
		desc:    "Remove a breakpoint at the specified address.",
		usage:   "breakpoint remove <address>",
		handler: (*Host).cmdBreakpointRemove,
	})
	addCommand(bp, &command{
		name:    "enable",
		brief:   "Enable a breakpoint",
		desc:    "Enable a previously added breakpoint.",
		usage:   "breakpoint enable <address>",
		handler: (*Host).cmdBreakpointEnable,
	})
	addCommand(bp, &command{
		name:  "disable",
		brief: "Disable a breakpoint",
		desc: "Disable a previously added breakpoint. This" +
			" prevents the breakpoint from being hit when running the" +
			" CPU.",
		usage:   "breakpoint disable <address>",
		handler: (*Host).cmdBreakpointDisable,
	})

	addCommand(bp, &command{
		name:  "cycles",
		brief: "Stop after a total number of cycles",
		desc: "Stop the CPU once the total number of cycles executed since" +
			" reset reaches the count. The breakpoint fires once. A count" +
			" of zero clears it, and no count displays it.",
		usage:   "breakpoint cycles [<count>]",
		handler: (*Host).cmdBreakpointCycles,
	})

	// Data breakpoint commands
	db := addSubtree(root, "databreakpoint", "Data breakpoint commands", "Data breakpoint")
	addCommand(db, &command{
		name:    "list",
		brief:   "List data breakpoints",
		desc:    "List all current data breakpoints.",
		usage:   "databreakpoint list",
		handler: (*Host).cmdDataBreakpointList,
	})
	addCommand(db, &command{
		name:  "add",
		brief: "Add a data breakpoint",
		desc: "Add a new data breakpoint at the specified" +
			" memory address. When the CPU stores data at this address, the" +
			" breakpoint will stop the CPU. Optionally, a byte" +
			" value may be specified, and the CPU will stop only" +
			" when this value is stored. The data breakpoint starts" +
			" enabled.",
		usage:   "databreakpoint add <address> [<value>]",
		handler: (*Host).cmdDataBreakpointAdd,
	})
	addCommand(db, &command{
		name:  "remove",
		brief: "Remove a data breakpoint",
		desc: "Remove a previously added data breakpoint at" +
			" the specified memory address.",
		usage:   "databreakpoint remove <address>",
		handler: (*Host).cmdDataBreakpointRemove,
	})
	addCommand(db, &command{
		name:    "enable",
		brief:   "Enable a data breakpoint",
		desc:    "Enable a previously added data breakpoint.",
		usage:   "databreakpoint enable <address>",
		handler: (*Host).cmdDataBreakpointEnable,
	})
	addCommand(db, &command{
		name:    "disable",
		brief:   "Disable a data breakpoint",
		desc:    "Disable a previously added data breakpoint.",
		usage:   "databreakpoint disable <address>",
		handler: (*Host).cmdDataBreakpointDisable,
	})

	addCommand(root, &command{
		name:  "disassemble",
		brief: "Disassemble code",
		desc: "Disassemble machine code starting at the requested" +
			" address. The number of instruction lines to disassemble may be" +
			" specified as an option. If no address is specified, the" +
			" disassembly continues from where the last disassembly left off.",
		usage:   "disassemble [<address>] [<lines>]",
		handler: (*Host).cmdDisassemble,
	})
	addCommand(root, &command{
		name:  "evaluate",
		brief: "Evaluate an expression",
		desc: "Evaluate a mathematical expression. Registers a, x, y, sp" +
			" and pc may be used, along with any exported labels.",
		usage:   "evaluate <expression>",
		handler: (*Host).cmdEvaluate,
	})
	addCommand(root, &command{
		name:  "exports",
		brief: "List exported addresses",
		desc: "Display a list of all memory addresses exported by" +
			" the loaded binary file. Exported addresses are stored in a binary" +
			" file's associated source map file.",
		usage:   "exports",
		handler: (*Host).cmdExports,
	})
	addCommand(root, &command{
		name:  "load",
		brief: "Load a binary file",
		desc: "Load the contents of a binary file into the emulated" +
			" system's memory. If the file has an associated source map, it" +
			" will be loaded too. If the file contains raw binary data, you must" +
			" specify the address where the data will be loaded.",
		usage:   "load <filename> [<address>]",
		handler: (*Host).cmdLoad,
	})

	// Memory commands
	me := addSubtree(root, "memory", "Memory commands", "Memory")
	addCommand(me, &command{
		name:  "dump",
		brief: "Dump memory at address",
		desc: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option. If no address is specified, the" +
			" memory dump continues from where the last dump left off.",
		usage:   "memory dump [<address>] [<bytes>]",
		handler: (*Host).cmdMemoryDump,
	})
	addCommand(me, &command{
		name:  "set",
		brief: "Set memory at address",
		desc: "Set the contents of memory starting from the specified" +
			" address. The values to assign should be a series of" +
			" space-separated byte values. You may use an expression for each" +
			" byte value.",
		usage:   "memory set <address> <byte> [<byte> ...]",
		handler: (*Host).cmdMemorySet,
	})

	addCommand(root, &command{
		name:    "quit",
		brief:   "Quit the program",
		desc:    "Quit the program.",
		usage:   "quit",
		handler: (*Host).cmdQuit,
	})
	addCommand(root, &command{
		name:  "registers",
		brief: "Display register contents",
		desc: "Display the current contents of all CPU registers, and" +
			" disassemble the instruction at the current program counter address.",
		usage:   "registers",
		handler: (*Host).cmdRegisters,
	})
	addCommand(root, &command{
		name:  "reset",
		brief: "Reset the CPU",
		desc: "Reset the CPU registers, clear memory and zero the cycle" +
			" counter. The program counter is set to the reset vector.",
		usage:   "reset",
		handler: (*Host).cmdReset,
	})
	addCommand(root, &command{
		name:  "run",
		brief: "Run the CPU",
		desc: "Run the CPU until the cycle budget is spent, a breakpoint" +
			" is hit or the user types Ctrl-C. Without an argument, the" +
			" budget is the RunCycles setting.",
		usage:   "run [<cycles>]",
		handler: (*Host).cmdRun,
	})
	addCommand(root, &command{
		name:  "set",
		brief: "Set a configuration variable",
		desc: "Set the value of a configuration variable or register. To see" +
			" the current values of all configuration variables, type set" +
			" without any arguments.",
		usage:   "set [<var> <value>]",
		handler: (*Host).cmdSet,
	})
	addCommand(root, &command{
		name:  "step",
		brief: "Step the CPU",
		desc: "Step the CPU by a single instruction. The number of steps" +
			" may be specified as an option.",
		usage:   "step [<count>]",
		handler: (*Host).cmdStep,
	})

	// Add command shortcuts.
	root.AddShortcut("a", "assemble file")
	root.AddShortcut("b", "breakpoint")
	root.AddShortcut("bp", "breakpoint")
	root.AddShortcut("ba", "breakpoint add")
	root.AddShortcut("br", "breakpoint remove")
	root.AddShortcut("bl", "breakpoint list")
	root.AddShortcut("be", "breakpoint enable")
	root.AddShortcut("bd", "breakpoint disable")
	root.AddShortcut("bc", "breakpoint cycles")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("db", "databreakpoint")
	root.AddShortcut("dbp", "databreakpoint")
	root.AddShortcut("dbl", "databreakpoint list")
	root.AddShortcut("dba", "databreakpoint add")
	root.AddShortcut("dbr", "databreakpoint remove")
	root.AddShortcut("dbe", "databreakpoint enable")
	root.AddShortcut("dbd", "databreakpoint disable")
	root.AddShortcut("e", "evaluate")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("ms", "memory set")
	root.AddShortcut("q", "quit")
	root.AddShortcut("r", "registers")
	root.AddShortcut("s", "step")
	root.AddShortcut("?", "help")

	cmds = root
}
