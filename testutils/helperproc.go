package testutils

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"testing"
)

// helperFlag marks an invocation of the test binary as a scripted program
// under test rather than a normal test run.
const helperFlag = "--testtools-helper-process=1"

// HelperCommand returns a command and arguments that re-execute the running
// test binary as a small scripted program. The package under test must
// declare
//
//	func TestHelperProcess(t *testing.T) { testutils.RunHelperProcess() }
//
// Script verbs run left to right:
//
//	echo TEXT    write TEXT to stdout
//	stderr TEXT  write TEXT to stderr
//	write TEXT   write TEXT to the path given as the final argument
//	touch        create or truncate the final argument as an empty file
//	cat          copy stdin to stdout
//	exit N       exit with status N
//
// Trailing arguments appended by the caller (such as an output path) end the
// script.
func HelperCommand(t testing.TB, script ...string) (string, []string) {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable: %v", err)
	}
	args := append([]string{"-test.run=^TestHelperProcess$", "--", helperFlag}, script...)
	return exe, args
}

// RunHelperProcess interprets the helper script and exits when the current
// process was started by HelperCommand. In a normal test run it returns
// immediately.
func RunHelperProcess() {
	args := os.Args
	sep := -1
	for i := range args {
		if args[i] == "--" {
			sep = i
			break
		}
	}
	if sep < 0 || sep+1 >= len(args) || args[sep+1] != helperFlag {
		return
	}
	os.Exit(runScript(args[sep+2:], os.Stdin, os.Stdout, os.Stderr))
}

func runScript(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	last := ""
	if len(args) > 0 {
		last = args[len(args)-1]
	}

	operand := func(i int) (string, bool) {
		if i+1 >= len(args) {
			fmt.Fprintf(stderr, "helper: %s needs an operand\n", args[i])
			return "", false
		}
		return args[i+1], true
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "echo":
			text, ok := operand(i)
			if !ok {
				return 2
			}
			_, _ = io.WriteString(stdout, text)
			i++
		case "stderr":
			text, ok := operand(i)
			if !ok {
				return 2
			}
			_, _ = io.WriteString(stderr, text)
			i++
		case "write":
			text, ok := operand(i)
			if !ok {
				return 2
			}
			if err := os.WriteFile(last, []byte(text), 0o644); err != nil {
				fmt.Fprintf(stderr, "helper: %v\n", err)
				return 2
			}
			i++
		case "touch":
			if err := os.WriteFile(last, nil, 0o644); err != nil {
				fmt.Fprintf(stderr, "helper: %v\n", err)
				return 2
			}
		case "cat":
			if _, err := io.Copy(stdout, stdin); err != nil {
				fmt.Fprintf(stderr, "helper: %v\n", err)
				return 2
			}
		case "exit":
			code, ok := operand(i)
			if !ok {
				return 2
			}
			n, err := strconv.Atoi(code)
			if err != nil {
				fmt.Fprintf(stderr, "helper: bad exit code %q\n", code)
				return 2
			}
			return n
		default:
			if i == len(args)-1 {
				return 0
			}
			fmt.Fprintf(stderr, "helper: unknown verb %q\n", args[i])
			return 2
		}
	}
	return 0
}
