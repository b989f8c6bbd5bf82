package script

import (
	"testing"

	glua "github.com/yuin/gopher-lua"
)

// newTestSandbox gives each test its own Lua state and Sandbox, closing the
// state through t.Cleanup. limit mirrors NewSandbox's instruction limit
// argument (0 disables the check).
func newTestSandbox(t *testing.T, limit int64) (*glua.LState, *Sandbox) {
	t.Helper()
	L := glua.NewState()
	t.Cleanup(func() { L.Close() })
	return L, NewSandbox(L, limit)
}

func TestNewSandbox(t *testing.T) {
	L, sandbox := newTestSandbox(t, 1000000)

	if sandbox == nil {
		t.Error("NewSandbox() returned nil")
	}
	if sandbox.L != L {
		t.Error("NewSandbox() has wrong LState")
	}
}

func TestSandboxInstall(t *testing.T) {
	L, sandbox := newTestSandbox(t, 1000000)
	glua.OpenBase(L)
	sandbox.Install()

	for _, fn := range []string{"dofile", "loadfile", "load", "loadstring"} {
		if v := L.GetGlobal(fn); v != glua.LNil {
			t.Errorf("%s should be removed, got %T", fn, v)
		}
	}
}

func TestSandboxCapabilityLifecycle(t *testing.T) {
	_, sandbox := newTestSandbox(t, 1000000)

	if sandbox.HasCapability(CapabilityFileRead) {
		t.Fatal("should not have CapabilityFileRead initially")
	}

	sandbox.Grant(CapabilityFileRead)
	if !sandbox.HasCapability(CapabilityFileRead) {
		t.Fatal("should have CapabilityFileRead after Grant")
	}

	sandbox.Revoke(CapabilityFileRead)
	if sandbox.HasCapability(CapabilityFileRead) {
		t.Fatal("should not have CapabilityFileRead after Revoke")
	}
}

func TestSandboxCapabilities(t *testing.T) {
	_, sandbox := newTestSandbox(t, 1000000)
	sandbox.Grant(CapabilityFileRead)
	sandbox.Grant(CapabilityNetwork)

	caps := sandbox.Capabilities()
	if len(caps) != 2 {
		t.Errorf("Capabilities() returned %d items, want 2", len(caps))
	}

	want := map[Capability]bool{CapabilityFileRead: false, CapabilityNetwork: false}
	for _, c := range caps {
		if _, ok := want[c]; ok {
			want[c] = true
		}
	}
	for c, seen := range want {
		if !seen {
			t.Errorf("Capabilities() missing %v", c)
		}
	}
}

func TestSandboxCheckCapability(t *testing.T) {
	_, sandbox := newTestSandbox(t, 1000000)

	err := sandbox.CheckCapability(CapabilityFileRead)
	if err == nil {
		t.Fatal("CheckCapability should fail without capability")
	}
	capErr, ok := err.(*CapabilityError)
	if !ok {
		t.Fatalf("CheckCapability returned %T, want *CapabilityError", err)
	}
	if capErr.Capability != CapabilityFileRead {
		t.Errorf("CapabilityError.Capability = %v, want %v", capErr.Capability, CapabilityFileRead)
	}

	sandbox.Grant(CapabilityFileRead)
	if err := sandbox.CheckCapability(CapabilityFileRead); err != nil {
		t.Errorf("CheckCapability with capability error = %v", err)
	}
}

func TestCapabilityError(t *testing.T) {
	err := &CapabilityError{Capability: CapabilityShell}
	if got, want := err.Error(), "capability not granted: shell"; got != want {
		t.Errorf("CapabilityError.Error() = %q, want %q", got, want)
	}
}

func TestSandboxInstructionCount(t *testing.T) {
	_, sandbox := newTestSandbox(t, 1000000)

	if sandbox.InstructionCount() != 0 {
		t.Errorf("initial InstructionCount = %d, want 0", sandbox.InstructionCount())
	}

	sandbox.IncrementInstructions(100)
	if sandbox.InstructionCount() != 100 {
		t.Errorf("InstructionCount after increment = %d, want 100", sandbox.InstructionCount())
	}

	sandbox.ResetInstructionCount()
	if sandbox.InstructionCount() != 0 {
		t.Errorf("InstructionCount after reset = %d, want 0", sandbox.InstructionCount())
	}
}

func TestSandboxInstructionLimit(t *testing.T) {
	tests := []struct {
		name    string
		limit   int64
		amounts []int64
		wantAny bool
	}{
		{"under limit", 100, []int64{50}, false},
		{"over limit", 100, []int64{50, 60}, true},
		{"disabled", 0, []int64{999999999}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sandbox := newTestSandbox(t, tt.limit)
			exceeded := false
			for _, n := range tt.amounts {
				if sandbox.IncrementInstructions(n) {
					exceeded = true
				}
			}
			if exceeded != tt.wantAny {
				t.Errorf("exceeded = %v, want %v", exceeded, tt.wantAny)
			}
		})
	}
}

func TestSandboxGrantFileRead(t *testing.T) {
	L, sandbox := newTestSandbox(t, 1000000)
	glua.OpenBase(L)
	sandbox.Install()
	sandbox.Grant(CapabilityFileRead)

	io, ok := L.GetGlobal("io").(*glua.LTable)
	if !ok {
		t.Fatalf("io is not a table after granting CapabilityFileRead, got %T", L.GetGlobal("io"))
	}
	if io.RawGetString("open") == glua.LNil {
		t.Error("io.open should exist")
	}
}

func TestSandboxGrantShell(t *testing.T) {
	L, sandbox := newTestSandbox(t, 1000000)
	glua.OpenBase(L)
	sandbox.Install()
	sandbox.Grant(CapabilityShell)

	os, ok := L.GetGlobal("os").(*glua.LTable)
	if !ok {
		t.Fatalf("os is not a table after granting CapabilityShell, got %T", L.GetGlobal("os"))
	}
	if os.RawGetString("getenv") == glua.LNil {
		t.Error("os.getenv should exist")
	}
}

func TestSandboxSafeRequire(t *testing.T) {
	L := glua.NewState(glua.Options{SkipOpenLibs: true})
	defer L.Close()
	glua.OpenBase(L)
	glua.OpenPackage(L)
	glua.OpenString(L)
	glua.OpenTable(L)
	glua.OpenMath(L)

	sandbox := NewSandbox(L, 1000000)
	sandbox.Install()

	for _, mod := range []string{"string", "math", "table"} {
		if err := L.DoString(`local m = require("` + mod + `")`); err != nil {
			t.Errorf("require(%q) failed: %v", mod, err)
		}
	}
}

func TestCapabilityConstants(t *testing.T) {
	tests := map[Capability]string{
		CapabilityFileRead:  "filesystem.read",
		CapabilityFileWrite: "filesystem.write",
		CapabilityNetwork:   "network",
		CapabilityShell:     "shell",
		CapabilityClipboard: "clipboard",
		CapabilityProcess:   "process.spawn",
		CapabilityUnsafe:    "unsafe",
	}

	for cap, want := range tests {
		if string(cap) != want {
			t.Errorf("%v = %q, want %q", cap, string(cap), want)
		}
	}
}
