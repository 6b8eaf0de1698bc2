/*
Package cli provides command-line support for the ceres binary: process exit
code handling and signal-aware contexts.

Exit codes:

Commands return errors; the entry point maps them to exit statuses with
ExitCode. A command that wants a specific status wraps its error:

	if !result.Compliant {
		return cli.Exit(2, "input is non-compliant")
	}

Signal handling:

SignalContext returns a context cancelled on SIGINT or SIGTERM, so storage
writes and exports stop cleanly:

	ctx := cli.SignalContext()
	rootCmd.ExecuteContext(ctx)
*/
package cli
