package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// inputReader resolves a command's input: args[0] when present and not a
// flag, otherwise cmd's configured stdin. When that stdin is the process's
// real os.Stdin (the normal CLI case, as opposed to a test harness's
// SetIn), it is only used if something is actually piped in, matching the
// teacher's getInputReader guard against blocking on an interactive
// terminal.
func inputReader(cmd *cobra.Command, args []string) (io.Reader, func() error, error) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, nil, err
		}
		return f, f.Close, nil
	}

	in := cmd.InOrStdin()
	if in == os.Stdin {
		stat, err := os.Stdin.Stat()
		if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
			return nil, nil, fmt.Errorf("no input provided: pass a file path or pipe XML on stdin")
		}
	}
	return in, func() error { return nil }, nil
}

func readAll(cmd *cobra.Command, args []string) ([]byte, error) {
	r, closeFn, err := inputReader(cmd, args)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return io.ReadAll(r)
}
