package testsupport

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"testing"
	"time"

	"modlauncher/internal/process"
)

// HelperEnv is set in the environment of re-executed test binaries.
const HelperEnv = "MODLAUNCHER_HELPER_PROCESS"

// HelperSpec builds a process spec that re-executes the current test binary as
// a fake external tool. The calling package must define:
//
//	func TestHelperProcess(t *testing.T) { testsupport.RunHelperProcess() }
//
// Supported modes:
//
//	echo <words...>   print words to stdout and "stderr:<words>" to stderr
//	cat               copy stdin to stdout
//	upper             copy stdin to stdout upper-cased; input starting with
//	                  "fail" is rejected with exit code 1
//	exit <code>       print "exit <code>" and exit with code
//	fail <code>       print to stdout and stderr, exit with code
//	sleep             block until killed
//	orphan            start a sleeping grandchild that inherits stdin, print
//	                  its pid and exit without reading stdin
//	crash             kill itself with a signal (abnormal termination)
func HelperSpec(t testing.TB, mode string, args ...string) process.Spec {
	t.Helper()
	t.Setenv(HelperEnv, "1")
	argv := append([]string{"-test.run=TestHelperProcess", "--", mode}, args...)
	return process.Spec{Program: os.Args[0], Args: argv}
}

// RunHelperProcess implements the fake tool modes. It is a no-op unless the
// binary was started through HelperSpec.
func RunHelperProcess() {
	if os.Getenv(HelperEnv) != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "helper: missing mode")
		os.Exit(2)
	}

	mode, rest := args[0], args[1:]
	switch mode {
	case "echo":
		fmt.Fprintln(os.Stdout, strings.Join(rest, " "))
		fmt.Fprintln(os.Stderr, "stderr:"+strings.Join(rest, " "))
	case "cat":
		_, _ = io.Copy(os.Stdout, os.Stdin)
	case "upper":
		data, _ := io.ReadAll(os.Stdin)
		if strings.HasPrefix(string(data), "fail") {
			fmt.Fprintln(os.Stderr, "conversion failed")
			os.Exit(1)
		}
		_, _ = os.Stdout.Write([]byte(strings.ToUpper(string(data))))
	case "exit":
		code := helperCode(rest)
		fmt.Fprintf(os.Stdout, "exit %d\n", code)
		os.Exit(code)
	case "fail":
		code := helperCode(rest)
		_, _ = io.Copy(io.Discard, os.Stdin)
		fmt.Fprintln(os.Stdout, "partial output")
		fmt.Fprintln(os.Stderr, "conversion failed")
		os.Exit(code)
	case "sleep":
		fmt.Fprintln(os.Stdout, "sleeping")
		time.Sleep(5 * time.Minute)
	case "orphan":
		child := exec.Command(os.Args[0], "-test.run=TestHelperProcess", "--", "sleep")
		child.Stdin = os.Stdin
		if err := child.Start(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stdout, "%d\n", child.Process.Pid)
	case "crash":
		fmt.Fprintln(os.Stdout, "crashing")
		crash()
	default:
		fmt.Fprintf(os.Stderr, "helper: unknown mode %q\n", mode)
		os.Exit(2)
	}
	os.Exit(0)
}

func helperCode(args []string) int {
	if len(args) == 0 {
		return 1
	}
	code, err := strconv.Atoi(args[0])
	if err != nil {
		return 1
	}
	return code
}

func crash() {
	p, err := os.FindProcess(os.Getpid())
	if err == nil {
		_ = p.Kill()
	}
	time.Sleep(time.Minute)
	os.Exit(3)
}
