package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/fundforge/fundforge/client"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query and manage the audit log",
	}
	cmd.AddCommand(auditQueryCmd())
	cmd.AddCommand(auditPurgeCmd())
	return cmd
}

func auditQueryCmd() *cobra.Command {
	var (
		entityType, entityID, ownerID, action, actorID, since string
		limit, offset                                         int
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query audit log entries in append order",
		Run: func(cmd *cobra.Command, args []string) {
			if limit < 0 || offset < 0 {
				fmt.Fprintf(os.Stderr, "Error: --limit and --offset must be non-negative\n")
				os.Exit(1)
			}
			opts := &client.AuditQueryOptions{
				EntityType:    entityType,
				EntityID:      entityID,
				EntityOwnerID: ownerID,
				Action:        action,
				ActorID:       actorID,
				Limit:         limit,
				Offset:        offset,
			}
			if since != "" {
				ts, err := time.Parse(time.RFC3339, since)
				if err != nil {
					fatal("parse --since", err)
				}
				opts.Since = &ts
			}
			entries, hasMore, err := apiClient.Audit.Query(context.Background(), opts)
			if err != nil {
				fatal("query audit log", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "ACTION", "ENTITY", "ACTOR", "CREATED"}
				var rows [][]string
				for _, e := range entries {
					rows = append(rows, []string{
						strconv.FormatInt(e.ID, 10),
						e.Action,
						e.EntityType + "/" + e.EntityID,
						e.ActorID,
						e.CreatedAt.Format(time.RFC3339),
					})
				}
				formatTable(headers, rows)
				if hasMore {
					fmt.Println("(more entries available; use --offset)")
				}
				return
			}
			if flagFmt == "quiet" {
				for _, e := range entries {
					fmt.Println(e.ID)
				}
				return
			}
			output(map[string]any{"data": entries, "has_more": hasMore}, "")
		},
	}
	cmd.Flags().StringVar(&entityType, "entity-type", "", "Filter by entity type")
	cmd.Flags().StringVar(&entityID, "entity-id", "", "Filter by entity ID")
	cmd.Flags().StringVar(&ownerID, "owner-id", "", "Filter by entity owner ID")
	cmd.Flags().StringVar(&action, "action", "", "Filter by action")
	cmd.Flags().StringVar(&actorID, "actor-id", "", "Filter by actor ID")
	cmd.Flags().StringVar(&since, "since", "", "Only entries at or after this RFC3339 timestamp")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func auditPurgeCmd() *cobra.Command {
	var retentionDays int
	var yes bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete audit entries older than the retention window (admin only)",
		Run: func(cmd *cobra.Command, args []string) {
			if retentionDays <= 0 {
				fmt.Fprintf(os.Stderr, "Error: --retention-days must be positive\n")
				os.Exit(1)
			}
			if !yes {
				fmt.Fprintf(os.Stderr, "Refusing to purge without --yes (this deletes audit history older than %d days)\n", retentionDays)
				os.Exit(1)
			}
			deleted, err := apiClient.Audit.Purge(context.Background(), retentionDays)
			if err != nil {
				fatal("purge audit log", err)
			}
			output(map[string]int{"deleted": deleted, "retention_days": retentionDays}, strconv.Itoa(deleted))
		},
	}
	cmd.Flags().IntVar(&retentionDays, "retention-days", 90, "Keep entries newer than this many days")
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the purge")
	return cmd
}
