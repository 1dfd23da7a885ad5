package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fundforge/fundforge/client"
)

func newModerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moderate",
		Short: "Moderate campaign comments",
	}
	cmd.AddCommand(moderateTransitionCmd("report", "Flag a comment for moderator attention",
		func(ctx context.Context, id, reason string) (*client.ModerationResult, error) {
			return apiClient.Moderation.Report(ctx, id, reason)
		}))
	cmd.AddCommand(moderateTransitionCmd("hide", "Hide a comment from public view",
		func(ctx context.Context, id, reason string) (*client.ModerationResult, error) {
			return apiClient.Moderation.Hide(ctx, id, reason)
		}))
	cmd.AddCommand(moderateTransitionCmd("remove", "Permanently remove a comment (terminal)",
		func(ctx context.Context, id, reason string) (*client.ModerationResult, error) {
			return apiClient.Moderation.Remove(ctx, id, reason)
		}))
	cmd.AddCommand(moderateTransitionCmd("restore", "Restore a hidden comment to visibility",
		func(ctx context.Context, id, reason string) (*client.ModerationResult, error) {
			return apiClient.Moderation.Restore(ctx, id, reason)
		}))
	cmd.AddCommand(moderateDeleteOwnCmd())
	return cmd
}

// moderateTransitionCmd builds one transition subcommand; all four share the
// same shape (single comment-ID arg, optional --reason).
func moderateTransitionCmd(
	name, short string,
	fn func(ctx context.Context, id, reason string) (*client.ModerationResult, error),
) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   name + " <comment-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			res, err := fn(context.Background(), args[0], reason)
			if err != nil {
				fatal(name+" comment", err)
			}
			printTransition(res)
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the audit trail")
	return cmd
}

func moderateDeleteOwnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <comment-id>",
		Short: "Delete a comment you authored",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			res, err := apiClient.Moderation.DeleteOwn(context.Background(), args[0])
			if err != nil {
				fatal("delete comment", err)
			}
			printTransition(res)
		},
	}
}

func printTransition(res *client.ModerationResult) {
	if res.AuditWriteFailed {
		fmt.Println("warning: change committed but audit record was not written")
	}
	quiet := ""
	if res.Comment != nil {
		quiet = res.Comment.ID
	}
	output(res, quiet)
}
