package install

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"toolup/internal/executor"
	"toolup/pkg/backend"
	"toolup/pkg/catalog"
	"toolup/pkg/envpath"
)

func TestCommandInstaller(t *testing.T) {
	tests := []struct {
		name        string
		result      executor.Result
		err         error
		wantSuccess bool
		wantReason  string
	}{
		{"exit zero", executor.Result{Output: "Successfully installed"}, nil, true, ""},
		{"exit non-zero", executor.Result{Output: "line one\nAccess is denied.\n", ExitCode: 5}, nil, false, "exit code 5: Access is denied."},
		{"zero exit with error text", executor.Result{Output: "error: something odd"}, nil, true, ""},
		{"start failure", executor.Result{ExitCode: -1}, errors.New("failed to start winget"), false, "failed to start winget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{result: tt.result, err: tt.err}
			inst := NewCommandInstaller(runner)

			out := inst.Install(context.Background(), Request{
				Backend:   backend.NewWinget(),
				PackageID: "junegunn.fzf",
				Force:     true,
			})

			if out.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", out.Success, tt.wantSuccess)
			}
			if out.Reason() != tt.wantReason {
				t.Errorf("Reason() = %q, want %q", out.Reason(), tt.wantReason)
			}
			if runner.lastName != "winget" {
				t.Errorf("ran %q", runner.lastName)
			}
			args := strings.Join(runner.lastArgs, " ")
			if !strings.HasPrefix(args, "install --id junegunn.fzf") || !strings.HasSuffix(args, "--force") {
				t.Errorf("args = %s", args)
			}
		})
	}
}

func TestDryRunInstaller(t *testing.T) {
	out := DryRunInstaller{}.Install(context.Background(), Request{})
	if !out.Success {
		t.Error("DryRunInstaller should always succeed")
	}
}

func TestCommandVerifierCheck(t *testing.T) {
	def := catalog.NewTool("ripgrep", map[backend.Kind][]string{backend.Primary: {"BurntSushi.ripgrep.MSVC"}})
	def.Command = "rg"

	tests := []struct {
		name        string
		runner      *fakeRunner
		wantSuccess bool
		wantVersion string
		wantReason  string
	}{
		{
			name:        "ok",
			runner:      &fakeRunner{result: executor.Result{Output: "\nripgrep 14.1.0\nfeatures:+pcre2\n"}},
			wantSuccess: true,
			wantVersion: "ripgrep 14.1.0",
		},
		{
			name:       "missing",
			runner:     &fakeRunner{missing: true},
			wantReason: "rg not on PATH",
		},
		{
			name:       "broken",
			runner:     &fakeRunner{result: executor.Result{ExitCode: 2}},
			wantReason: "exited with code 2",
		},
		{
			name:       "killed",
			runner:     &fakeRunner{err: errors.New("command aborted")},
			wantReason: "command aborted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewCommandVerifier(tt.runner, 0)
			got := v.Check(context.Background(), def)

			if got.Success != tt.wantSuccess || got.Version != tt.wantVersion {
				t.Errorf("Check() = %+v", got)
			}
			if !strings.Contains(got.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if tt.runner.missing && tt.runner.execs != 0 {
				t.Error("ran version probe without a resolved executable")
			}
		})
	}
}

func TestCommandVerifierVerify(t *testing.T) {
	runner := &fakeRunner{result: executor.Result{Output: "0.44.1 (brew)"}}
	v := NewCommandVerifier(runner, DefaultSettleDelay)

	var slept []int64
	var refreshed int
	v.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, int64(d))
		return nil
	}
	v.refresh = func() error {
		refreshed++
		return errors.New("registry unavailable")
	}

	def := catalog.NewTool("fzf", map[backend.Kind][]string{backend.Primary: {"junegunn.fzf"}})
	got := v.Verify(context.Background(), def)

	if !got.Success || got.Version != "0.44.1 (brew)" {
		t.Errorf("Verify() = %+v", got)
	}
	if len(slept) != 1 || slept[0] != int64(DefaultSettleDelay) {
		t.Errorf("slept = %v", slept)
	}
	if refreshed != 1 {
		t.Errorf("refreshed = %d", refreshed)
	}
}

func TestCommandVerifierHoldsPathLock(t *testing.T) {
	runner := &fakeRunner{result: executor.Result{Output: "jq-1.7.1"}}
	v := NewCommandVerifier(runner, 0)

	acquired := make(chan struct{})
	v.refresh = func() error {
		// A competing PATH writer must not get in between reload and lookup.
		go envpath.Do(func() { close(acquired) })
		select {
		case <-acquired:
			t.Error("PATH lock not held during reload")
		case <-time.After(20 * time.Millisecond):
		}
		return nil
	}

	got := v.Verify(context.Background(), catalog.NewTool("jq", map[backend.Kind][]string{backend.Primary: {"jqlang.jq"}}))
	if !got.Success {
		t.Fatalf("Verify() = %+v", got)
	}

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Error("PATH lock not released after Verify()")
	}
}

func TestCommandVerifierInterrupted(t *testing.T) {
	runner := &fakeRunner{}
	v := NewCommandVerifier(runner, DefaultSettleDelay)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := v.Verify(ctx, catalog.NewTool("jq", map[backend.Kind][]string{backend.Primary: {"jqlang.jq"}}))
	if got.Success {
		t.Error("Verify() succeeded after cancellation")
	}
	if runner.total() != 0 {
		t.Error("Verify() probed after cancellation")
	}
}

func TestTailLines(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"", 3, ""},
		{"a\nb\nc\n", 2, "b\nc"},
		{"a\n\n  \nb\r\n", 5, "a\nb"},
		{"only", 1, "only"},
	}

	for _, tt := range tests {
		if got := tailLines(tt.in, tt.n); got != tt.want {
			t.Errorf("tailLines(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
