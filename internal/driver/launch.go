package driver

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/jamielinux/pyright-polite/internal/platform"
)

// process is a started pyright child.
type process struct {
	cmd     *exec.Cmd
	started time.Time

	// stdout and stderr are the read ends of the capture pipes; nil when the
	// child writes straight to the supervisor's streams.
	stdout *os.File
	stderr *os.File

	// done is closed once Wait has returned.
	done chan struct{}

	mu      sync.Mutex
	code    int
	known   bool
	waitErr error

	closeOnce sync.Once
}

// launchSpec describes how to start the child.
type launchSpec struct {
	argv    []string
	env     []string
	capture bool
	stdout  io.Writer
	stderr  io.Writer
	plat    platform.Platform
}

// launch starts the child. With capture, both output streams go to pipes
// owned by the supervisor so that Wait cannot close them under the readers.
func launch(spec launchSpec) (*process, error) {
	if len(spec.argv) == 0 || spec.argv[0] == "" {
		return nil, &StartError{Reason: "no pyright executable given", Code: 1}
	}

	cmd := &exec.Cmd{
		Path:  spec.argv[0],
		Args:  spec.argv,
		Env:   spec.env,
		Stdin: os.Stdin,
	}
	p := &process{
		cmd:  cmd,
		done: make(chan struct{}),
	}

	var writeEnds []*os.File
	if spec.capture {
		outR, outW, err := os.Pipe()
		if err != nil {
			return nil, &StartError{Reason: fmt.Sprintf("failed to create stdout pipe: %v", err), Code: 1, Err: err}
		}
		errR, errW, err := os.Pipe()
		if err != nil {
			outR.Close()
			outW.Close()
			return nil, &StartError{Reason: fmt.Sprintf("failed to create stderr pipe: %v", err), Code: 1, Err: err}
		}
		p.stdout, p.stderr = outR, errR
		cmd.Stdout, cmd.Stderr = outW, errW
		writeEnds = []*os.File{outW, errW}
	} else {
		cmd.Stdout, cmd.Stderr = spec.stdout, spec.stderr
	}

	err := cmd.Start()
	// The child holds its own copies; ours would keep the readers from EOF.
	for _, f := range writeEnds {
		f.Close()
	}
	if err != nil {
		p.closePipes()
		return nil, classifyStartError(err, spec.plat)
	}

	p.started = time.Now()
	go p.wait()
	return p, nil
}

func classifyStartError(err error, plat platform.Platform) *StartError {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return &StartError{Reason: "pyright is not executable", Code: plat.NotExecutableCode, Err: err}
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, exec.ErrNotFound):
		return &StartError{Reason: "pyright could not be found in your PATH", Code: plat.NotFoundCode, Err: err}
	default:
		return &StartError{Reason: fmt.Sprintf("failed to start pyright: %v", err), Code: 1, Err: err}
	}
}

// wait reaps the child exactly once.
func (p *process) wait() {
	err := p.cmd.Wait()

	code, known := 0, false
	if st := p.cmd.ProcessState; st != nil {
		code, known = platform.NormalizeExitCode(st.ExitCode()), true
	}

	p.mu.Lock()
	p.code, p.known, p.waitErr = code, known, err
	p.mu.Unlock()

	close(p.done)
}

func (p *process) pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *process) running() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// interrupt asks a running child to stop. A child that already exited is
// not an error.
func (p *process) interrupt() error {
	if !p.running() {
		return nil
	}
	return platform.Interrupt(p.pid())
}

// exitCode returns the child's exit code and whether it is known.
// A code of -1 on POSIX means the child was killed by a signal.
func (p *process) exitCode() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.code, p.known
}

func (p *process) closePipes() {
	p.closeOnce.Do(func() {
		if p.stdout != nil {
			p.stdout.Close()
		}
		if p.stderr != nil {
			p.stderr.Close()
		}
	})
}
