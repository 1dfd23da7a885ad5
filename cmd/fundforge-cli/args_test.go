package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeArgs runs the given root command with args and returns any error.
// It suppresses cobra's usage/error output so test output stays clean.
func executeArgs(t *testing.T, root *cobra.Command, args ...string) error {
	t.Helper()
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return err
}

// newTestRoot builds a root command tree identical to main() but with
// PersistentPreRun stubbed out so the API client is never initialised.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "fundforge",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Skip client initialisation in tests.
		},
	}
	root.PersistentFlags().StringVar(&flagURL, "url", "http://localhost:3030", "")
	root.PersistentFlags().StringVar(&flagToken, "token", "", "")
	root.PersistentFlags().StringVar(&flagFmt, "format", "json", "")

	root.AddCommand(newCommentCmd())
	root.AddCommand(newModerateCmd())
	root.AddCommand(newAuditCmd())
	return root
}

// --- comment create ---

func TestCommentCreateArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{
			name: "requires exactly one positional arg (body)",
			args: []string{"comment", "create", "--campaign", "camp-1"},
		},
		{
			name: "rejects two positional args",
			args: []string{"comment", "create", "--campaign", "camp-1", "body1", "extra"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := newTestRoot()
			if err := executeArgs(t, root, tc.args...); err == nil {
				t.Errorf("expected error, got nil")
			}
		})
	}
}

// TestCommentCreateRequiresCampaignFlag verifies --campaign is registered and
// marked required.
func TestCommentCreateRequiresCampaignFlag(t *testing.T) {
	cmd := commentCreateCmd()
	f := cmd.Flags().Lookup("campaign")
	if f == nil {
		t.Fatal("--campaign flag not found on comment create")
	}
	if f.Annotations[cobra.BashCompOneRequiredFlag] == nil {
		t.Error("--campaign should be marked required")
	}
}

// --- moderation transitions ---

func TestModerateExactArgs1Commands(t *testing.T) {
	subcommands := []string{"report", "hide", "remove", "restore", "delete"}
	for _, sub := range subcommands {
		t.Run(sub, func(t *testing.T) {
			root := newTestRoot()
			if err := executeArgs(t, root, "moderate", sub); err == nil {
				t.Errorf("%s: zero args should be rejected", sub)
			}
			root = newTestRoot()
			if err := executeArgs(t, root, "moderate", sub, "c1", "extra"); err == nil {
				t.Errorf("%s: two args should be rejected", sub)
			}
		})
	}
}

// TestModerateReasonFlag verifies the transition commands carry --reason and
// the own-delete command (no moderator rationale) does not.
func TestModerateReasonFlag(t *testing.T) {
	root := newModerateCmd()
	for _, sub := range root.Commands() {
		name := strings.Fields(sub.Use)[0]
		f := sub.Flags().Lookup("reason")
		if name == "delete" {
			if f != nil {
				t.Error("delete should not carry --reason")
			}
			continue
		}
		if f == nil {
			t.Errorf("%s: --reason flag not found", name)
		}
	}
}

// --- audit ---

func TestAuditQueryFlagDefaults(t *testing.T) {
	cmd := auditQueryCmd()

	cases := []struct {
		flag string
		want string
	}{
		{"entity-type", ""},
		{"entity-id", ""},
		{"owner-id", ""},
		{"action", ""},
		{"actor-id", ""},
		{"since", ""},
		{"limit", "0"},
		{"offset", "0"},
	}
	for _, tc := range cases {
		f := cmd.Flags().Lookup(tc.flag)
		if f == nil {
			t.Errorf("--%s flag not found", tc.flag)
			continue
		}
		if f.DefValue != tc.want {
			t.Errorf("--%s default: got %q, want %q", tc.flag, f.DefValue, tc.want)
		}
	}
}

func TestAuditPurgeFlagDefaults(t *testing.T) {
	cmd := auditPurgeCmd()

	cases := []struct {
		flag string
		want string
	}{
		{"retention-days", "90"},
		{"yes", "false"},
	}
	for _, tc := range cases {
		f := cmd.Flags().Lookup(tc.flag)
		if f == nil {
			t.Errorf("--%s flag not found", tc.flag)
			continue
		}
		if f.DefValue != tc.want {
			t.Errorf("--%s default: got %q, want %q", tc.flag, f.DefValue, tc.want)
		}
	}
}

// --- global format flag ---

func TestFormatFlagDefault(t *testing.T) {
	root := newTestRoot()
	f := root.PersistentFlags().Lookup("format")
	if f == nil {
		t.Fatal("--format flag not found")
	}
	if f.DefValue != "json" {
		t.Errorf("default format: got %q, want %q", f.DefValue, "json")
	}
}

// TestFormatFlagValues verifies that accepted format values are "json", "table",
// and "quiet" — these are the only strings the output functions branch on.
func TestFormatFlagValues(t *testing.T) {
	validFormats := []string{"json", "table", "quiet"}
	for _, fmt := range validFormats {
		flagFmt = fmt
		// output() must not panic for any of these values.
		captureStdout(t, func() { output(map[string]string{"k": "v"}, "id") })
	}
}
