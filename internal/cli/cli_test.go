package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	root := testCLI().RootCommand()

	want := []string{"networkxlayout", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing %q subcommand", name)
		}
	}
}

func TestNetworkxLayoutRequiresFourPositionals(t *testing.T) {
	root := testCLI().RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"networkxlayout", "spring", "user", "pass"})

	if err := root.Execute(); err == nil {
		t.Error("expected error for missing server positional")
	}
}

func TestNetworkxLayoutRequiresUUIDFlag(t *testing.T) {
	root := testCLI().RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"networkxlayout", "spring", "user", "pass", "server"})

	if err := root.Execute(); err == nil {
		t.Error("expected error for missing --uuid")
	}
}

func TestNetworkxLayoutRejectsUndeclaredLayout(t *testing.T) {
	var buf bytes.Buffer
	root := testCLI().RootCommand()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"networkxlayout", "bogus", "user", "pass", "server", "--uuid", testUUID})

	err := root.Execute()
	if err == nil {
		t.Fatal("expected error for undeclared layout name")
	}
	if !strings.Contains(err.Error(), "layout must be one of") {
		t.Errorf("error = %v, want choice-list message", err)
	}
}
