package cli

import "testing"

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "chatwell" {
		t.Errorf("Command.Use = %v, want chatwell", cmd.Use)
	}

	flags := []string{"config", "db", "user", "json"}
	for _, flag := range flags {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Persistent flag %q not defined", flag)
		}
	}

	want := []string{
		"import", "analyze", "track", "history", "summary", "suggest",
		"dashboard", "trends", "list", "search", "rename", "delete",
		"export", "stats", "watch", "browse", "serve", "mcp",
	}
	have := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		have[sub.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("Subcommand %q not registered", name)
		}
	}
}
