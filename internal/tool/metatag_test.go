package tool

import "testing"

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand("search;tasks;auth,login;limit=5,sort=desc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Name != "search" || cmd.Target != "tasks" {
		t.Fatalf("got name=%q target=%q", cmd.Name, cmd.Target)
	}
	if len(cmd.Positional) != 2 || cmd.Positional[0] != "auth" || cmd.Positional[1] != "login" {
		t.Fatalf("positional=%v", cmd.Positional)
	}
	if cmd.Options["limit"] != "5" || cmd.Options["sort"] != "desc" {
		t.Fatalf("options=%v", cmd.Options)
	}
}

func TestParseCommand_MinimalArity(t *testing.T) {
	cmd, err := ParseCommand("list;tasks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Name != "list" || cmd.Target != "tasks" {
		t.Fatalf("got %+v", cmd)
	}
	if len(cmd.Positional) != 0 || len(cmd.Options) != 0 {
		t.Fatalf("expected no positional/options, got %+v", cmd)
	}
}

func TestParseCommand_Invalid(t *testing.T) {
	if _, err := ParseCommand("justcommand"); err == nil {
		t.Fatal("expected error for missing target")
	}
}
