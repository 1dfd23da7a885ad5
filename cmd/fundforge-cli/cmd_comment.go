package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fundforge/fundforge/client"
)

func newCommentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Create and inspect campaign comments",
	}
	cmd.AddCommand(commentCreateCmd())
	cmd.AddCommand(commentGetCmd())
	return cmd
}

func commentCreateCmd() *cobra.Command {
	var campaignID, commentID string
	cmd := &cobra.Command{
		Use:   "create <body>",
		Short: "Post a comment on a campaign",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateCommentRequest{
				ID:         commentID,
				CampaignID: campaignID,
				Body:       args[0],
			}
			comment, err := apiClient.Comments.Create(context.Background(), req)
			if err != nil {
				fatal("create comment", err)
			}
			output(comment, comment.ID)
		},
	}
	cmd.Flags().StringVar(&campaignID, "campaign", "", "Campaign ID (required)")
	cmd.Flags().StringVar(&commentID, "id", "", "Explicit comment ID (default: generated)")
	cmd.MarkFlagRequired("campaign") //nolint:errcheck
	return cmd
}

func commentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a comment by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			comment, err := apiClient.Comments.Get(context.Background(), args[0])
			if err != nil {
				fatal("get comment", err)
			}
			output(comment, comment.ID)
		},
	}
}
