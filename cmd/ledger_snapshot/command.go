package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

const (
	cmdBackup      = "backup"
	cmdRestore     = "restore"
	cmdListArchive = "list-archive"
)

const usage = `usage:
  ledger_snapshot backup [-out FILE] [-archive]
  ledger_snapshot restore FILE [-replace]
  ledger_snapshot restore -from-archive ID [-replace]
  ledger_snapshot list-archive [-limit N]`

var errUsage = errors.New(usage)

// command is one parsed invocation of the tool
type command struct {
	name        string
	out         string
	archive     bool
	file        string
	fromArchive string
	replace     bool
	limit       int
}

// needsArchive reports whether the command talks to MongoDB
func (c command) needsArchive() bool {
	return c.archive || c.fromArchive != "" || c.name == cmdListArchive
}

// parseCommand reads the subcommand and its flags. Flags may follow the
// restore file name.
func parseCommand(args []string, stderr io.Writer) (command, error) {
	if len(args) == 0 {
		return command{}, errUsage
	}

	cmd := command{name: args[0]}
	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	switch cmd.name {
	case cmdBackup:
		fs.StringVar(&cmd.out, "out", "", "snapshot file name, relative names land in SNAPSHOT_DIR")
		fs.BoolVar(&cmd.archive, "archive", false, "also store the snapshot in the MongoDB archive")
	case cmdRestore:
		fs.StringVar(&cmd.fromArchive, "from-archive", "", "restore the archived snapshot with this id")
		fs.BoolVar(&cmd.replace, "replace", false, "clear every table before restoring")
	case cmdListArchive:
		fs.IntVar(&cmd.limit, "limit", 20, "number of snapshots to list")
	default:
		return command{}, fmt.Errorf("unknown command %q\n%w", cmd.name, errUsage)
	}

	if err := fs.Parse(args[1:]); err != nil {
		return command{}, err
	}
	rest := fs.Args()
	if cmd.name == cmdRestore && len(rest) > 0 {
		cmd.file = rest[0]
		if err := fs.Parse(rest[1:]); err != nil {
			return command{}, err
		}
		rest = fs.Args()
	}
	if len(rest) > 0 {
		return command{}, fmt.Errorf("unexpected arguments %v\n%w", rest, errUsage)
	}

	if cmd.name == cmdRestore {
		switch {
		case cmd.file == "" && cmd.fromArchive == "":
			return command{}, fmt.Errorf("restore needs a FILE or -from-archive ID\n%w", errUsage)
		case cmd.file != "" && cmd.fromArchive != "":
			return command{}, fmt.Errorf("restore takes either a FILE or -from-archive ID, not both\n%w", errUsage)
		}
	}
	if cmd.name == cmdListArchive && cmd.limit <= 0 {
		return command{}, fmt.Errorf("-limit must be positive, got %d", cmd.limit)
	}

	return cmd, nil
}
