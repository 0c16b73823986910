package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
	Verbose   int  `help:"Increase log verbosity (repeatable)." short:"v" type:"counter"`

	DialectFlags
}

type Commands struct {
	Globals

	Parse    ParseCmd    `cmd:"" help:"Parse a delimited file and print its records."`
	Format   FormatCmd   `cmd:"" help:"Re-print a delimited file in another dialect."`
	Check    CheckCmd    `cmd:"" help:"Check that a delimited file parses."`
	Dialects DialectsCmd `cmd:"" help:"List the predefined dialects."`
	Doctor   DoctorCmd   `cmd:"" help:"Doctor utilities for debugging delimited files."`
}
