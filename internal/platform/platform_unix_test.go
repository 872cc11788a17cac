//go:build !windows

package platform

import (
	"os/exec"
	"syscall"
	"testing"
)

func TestPosixSignalTable(t *testing.T) {
	p := Current()
	if p.Name != "posix" {
		t.Fatalf("Name = %q, want posix", p.Name)
	}
	want := map[syscall.Signal]int{
		syscall.SIGHUP:  129,
		syscall.SIGINT:  130,
		syscall.SIGQUIT: 131,
		syscall.SIGALRM: 142,
		syscall.SIGTERM: 143,
	}
	if p.Signals.Len() != len(want) {
		t.Fatalf("Signals.Len() = %d, want %d", p.Signals.Len(), len(want))
	}
	for sig, code := range want {
		got, ok := p.Signals.Lookup(sig)
		if !ok || got != code {
			t.Errorf("Lookup(%v) = %d, %v, want %d", sig, got, ok, code)
		}
	}
	if p.AcceptNegativeCodes {
		t.Error("posix must not accept negative exit codes")
	}
	if p.NotFoundCode != 127 || p.NotExecutableCode != 126 {
		t.Errorf("startup codes = %d/%d, want 127/126", p.NotFoundCode, p.NotExecutableCode)
	}
}

func TestInterruptFinishedProcess(t *testing.T) {
	cmd := exec.Command("true")
	if err := cmd.Run(); err != nil {
		t.Skipf("cannot run true: %v", err)
	}
	if err := Interrupt(cmd.Process.Pid); err != nil {
		t.Errorf("Interrupt on a reaped process = %v, want nil", err)
	}
	if err := Interrupt(0); err != nil {
		t.Errorf("Interrupt(0) = %v, want nil", err)
	}
}

func TestInterruptRunningProcess(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start sleep: %v", err)
	}
	if err := Interrupt(cmd.Process.Pid); err != nil {
		t.Fatalf("Interrupt = %v", err)
	}
	err := cmd.Wait()
	status, ok := cmd.ProcessState.Sys().(syscall.WaitStatus)
	if err == nil || !ok || !status.Signaled() || status.Signal() != syscall.SIGINT {
		t.Errorf("sleep did not die from SIGINT: err=%v status=%v", err, cmd.ProcessState)
	}
}

func TestNormalizeExitCodePosix(t *testing.T) {
	for _, code := range []int{-1, 0, 1, 130, 255} {
		if got := NormalizeExitCode(code); got != code {
			t.Errorf("NormalizeExitCode(%d) = %d", code, got)
		}
	}
}
