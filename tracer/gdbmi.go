// Package tracer drives a real GDB subprocess over its machine-interface
// (MI2) protocol to single-step a target binary and record trace rows,
// mirroring the GdbMi class in the original GDB-driven tracer.
package tracer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// GdbMi wraps a running "gdb -q --interpreter=mi2" child process.
type GdbMi struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	log    *zap.Logger

	mu sync.Mutex
}

// Start launches gdb against binary with args, stopped at the entry point.
func Start(ctx context.Context, log *zap.Logger, binary string, args []string) (*GdbMi, error) {
	cmd := exec.CommandContext(ctx, "gdb", "-q", "--interpreter=mi2", "--args", binary)
	cmd.Args = append(cmd.Args, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "gdb stdin pipe")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "gdb stdout pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "start gdb")
	}

	g := &GdbMi{cmd: cmd, stdin: stdin, stdout: bufio.NewReader(stdout), log: log}
	if _, err := g.readUntilPromptOrEOF(); err != nil {
		return nil, err
	}
	return g, nil
}

// Mi sends a raw MI command and returns the lines up to the next "(gdb)"
// prompt.
func (g *GdbMi) Mi(cmd string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := fmt.Fprintf(g.stdin, "%s\n", cmd); err != nil {
		return nil, errors.Wrap(err, "write gdb command")
	}
	return g.readUntilPromptOrEOF()
}

func (g *GdbMi) readUntilPromptOrEOF() ([]string, error) {
	var lines []string
	for {
		line, err := g.stdout.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if err != nil {
			if err == io.EOF {
				return lines, nil
			}
			return lines, errors.Wrap(err, "read gdb output")
		}
		if strings.HasPrefix(line, "(gdb)") {
			return lines, nil
		}
	}
}

// StepI single-steps one machine instruction.
func (g *GdbMi) StepI() ([]string, error) { return g.Mi("-exec-step-instruction") }

// DisasCur disassembles the current instruction pointer.
func (g *GdbMi) DisasCur() ([]string, error) { return g.Mi("x/i $pc") }

// ReadRegX reads a general-purpose register by name (e.g. "x0").
func (g *GdbMi) ReadRegX(name string) (uint64, error) {
	lines, err := g.Mi(fmt.Sprintf("-data-evaluate-expression $%s", name))
	if err != nil {
		return 0, err
	}
	for _, l := range lines {
		if strings.HasPrefix(l, "^done,value=") {
			var v uint64
			raw := strings.Trim(strings.TrimPrefix(l, "^done,value="), "\"")
			if _, err := fmt.Sscanf(raw, "0x%x", &v); err == nil {
				return v, nil
			}
			if _, err := fmt.Sscanf(raw, "%d", &v); err == nil {
				return v, nil
			}
		}
	}
	return 0, errors.Newf("register %s not found in gdb reply", name)
}

// IsExited and IsStopped classify the last batch of MI output lines.
func IsExited(lines []string) bool {
	for _, l := range lines {
		if strings.Contains(l, "*exited") {
			return true
		}
	}
	return false
}

func IsStopped(lines []string) bool {
	for _, l := range lines {
		if strings.HasPrefix(l, "*stopped") {
			return true
		}
	}
	return false
}

// Close terminates the gdb subprocess.
func (g *GdbMi) Close() error {
	_, _ = g.Mi("-gdb-exit")
	return g.cmd.Wait()
}
