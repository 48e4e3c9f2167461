package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printFn are test seams for user-facing REPL output. In
// tests, replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// command is one REPL verb.
type command struct {
	name  string
	usage string
	help  string
	run   func(ctx context.Context, args []string) error
}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	commands() []command
}

// runREPL starts a simple read–eval–print loop for the editor.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to the matching entry of a.commands(), passing the remaining
// tokens as arguments. The loop exits on EOF or when the user types "exit"
// or "quit".
//
// When promptFn is non-nil its result is printed before each read.
//
// A command error is printed and the loop continues.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader) {
	cmds := a.commands()
	byName := make(map[string]command, len(cmds))
	for _, c := range cmds {
		byName[c.name] = c
	}

	for {
		if promptFn != nil {
			printFn(promptFn())
		}
		line, ok := readLine(reader)
		if !ok {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 || strings.HasPrefix(parts[0], "#") {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help", "?":
			printHelp(cmds)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		c, ok := byName[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if err := c.run(ctx, args); err != nil {
			printlnFn("error:", err)
		}
	}
}

func printHelp(cmds []command) {
	printlnFn("Available commands:")
	for _, c := range cmds {
		printlnFn(fmt.Sprintf("  %-34s %s", strings.TrimSpace(c.name+" "+c.usage), c.help))
	}
	printlnFn(fmt.Sprintf("  %-34s %s", "help | exit", "show this list | leave the editor"))
}
