// Command playlink-log is a tool for viewing and analyzing Playlink
// protocol journal files.
//
// Journal files are created by playlink-client with the -journal flag.
//
// Usage:
//
//	playlink-log <command> [flags] <file.pjl>
//
// Commands:
//
//	view     View journal in human-readable format
//	export   Export journal to JSONL
//	stats    Show statistics about the journal
//
// Examples:
//
//	# View all events
//	playlink-log view session.pjl
//
//	# View only inbound messages
//	playlink-log view -direction in session.pjl
//
//	# Export to JSONL
//	playlink-log export session.pjl > session.jsonl
//
//	# Show statistics
//	playlink-log stats session.pjl
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/playlink-protocol/playlink-go/cmd/playlink-log/commands"
)

const usage = `playlink-log - Playlink Protocol Journal Analyzer

Usage:
  playlink-log <command> [flags] <file.pjl>

Commands:
  view     View journal in human-readable format
  export   Export journal to JSONL
  stats    Show statistics about the journal

Use "playlink-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `playlink-log view - View journal in human-readable format

Usage:
  playlink-log view [flags] <file.pjl>

Flags:
`)
		fs.PrintDefaults()
	}

	direction := fs.String("direction", "", "Filter by direction (in, out, local)")
	category := fs.String("category", "", "Filter by category (message, state, close, error)")
	msgType := fs.String("type", "", "Filter by message type tag (e.g. PLAYER_UPDATE)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	var filter commands.ViewFilter

	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			fatal(err)
		}
		filter.Direction = &d
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fatal(err)
		}
		filter.Category = &c
	}
	filter.MessageType = *msgType

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `playlink-log export - Export journal to JSONL

Usage:
  playlink-log export [flags] <file.pjl>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		out = f
	}

	if err := commands.RunExport(path, out); err != nil {
		fatal(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `playlink-log stats - Show statistics about the journal

Usage:
  playlink-log stats <file.pjl>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fatal(err)
	}
}

func requirePath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: journal file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
