package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/chroniclehq/chronicle/client"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse content version history",
	}
	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyGetCmd())
	return cmd
}

func historyListCmd() *cobra.Command {
	var (
		locale   string
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "list <content-type> <document-id>",
		Short: "List versions of a document, newest first",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.VersionListOptions{
				Locale:   locale,
				Page:     page,
				PageSize: pageSize,
			}
			result, err := apiClient.History.ListVersions(context.Background(), args[0], args[1], opts)
			if err != nil {
				fatal("list versions", err)
			}

			if flagFmt == "table" {
				rows := make([][]string, 0, len(result.Versions))
				for _, v := range result.Versions {
					status := "-"
					if v.Status != nil {
						status = *v.Status
					}
					createdBy := "-"
					if v.CreatedBy != nil {
						createdBy = *v.CreatedBy
					}
					rows = append(rows, []string{
						strconv.FormatInt(v.ID, 10),
						status,
						createdBy,
						v.CreatedAt.Format(time.RFC3339),
					})
				}
				formatTable([]string{"ID", "STATUS", "CREATED BY", "CREATED AT"}, rows)
				fmt.Printf("\npage %d of %d total versions\n", result.Page, result.Total)
				return
			}

			output(result, fmt.Sprintf("%d", result.Total))
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "Locale scope (omit for locale-less documents)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Versions per page")
	return cmd
}

func historyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <content-type> <document-id> <version-id>",
		Short: "Get a single version with its data and schema snapshots",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				fatal("parse version id", err)
			}
			v, err := apiClient.History.GetVersion(context.Background(), args[0], args[1], id)
			if err != nil {
				fatal("get version", err)
			}
			output(v, strconv.FormatInt(v.ID, 10))
		},
	}
}
