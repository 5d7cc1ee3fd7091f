package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"edumate/internal/model"
	"edumate/internal/repository"
)

func initDBCMD(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the history tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), *dbPath)
			if err != nil {
				return err
			}
			defer s.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "history store ready")
			return nil
		},
	}
}

func historyCMD(dbPath *string) *cobra.Command {
	history := &cobra.Command{
		Use:   "history",
		Short: "Inspect and edit saved chats",
	}

	var pinnedOnly bool
	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List chats, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), *dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.records.Search(query, pinnedOnly)
			if err != nil {
				return err
			}
			printRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}
	list.Flags().BoolVar(&pinnedOnly, "pinned", false, "only pinned chats")
	list.Flags().StringVar(&query, "search", "", "case-insensitive title filter")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), *dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			record, err := s.records.Get(args[0])
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("%s: %w", args[0], repository.ErrRecordNotFound)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:       %s\n", record.ID)
			fmt.Fprintf(out, "Title:    %s\n", record.Title)
			fmt.Fprintf(out, "Pinned:   %t\n", record.Pinned)
			fmt.Fprintf(out, "Created:  %s\n", record.CreatedAt.Format(time.RFC3339))
			fmt.Fprintf(out, "Updated:  %s\n", record.UpdatedAt.Format(time.RFC3339))
			fmt.Fprintf(out, "\nQ: %s\n\nA: %s\n", record.Question, record.Answer)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Change a chat title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), *dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.records.UpdateTitle(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed %s\n", args[0])
			return nil
		},
	}

	pin := &cobra.Command{
		Use:   "pin <id>",
		Short: "Toggle the pinned flag of a chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), *dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.records.TogglePin(args[0]); err != nil {
				return err
			}
			record, err := s.records.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s pinned=%t\n", args[0], record != nil && record.Pinned)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), *dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.records.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	history.AddCommand(list, show, rename, pin, del)
	return history
}

func printRecords(out io.Writer, records []model.ChatRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "no chats")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPINNED\tCREATED\tTITLE")
	for _, r := range records {
		pinned := ""
		if r.Pinned {
			pinned = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, pinned, r.CreatedAt.Format("2006-01-02 15:04"), r.Title)
	}
	_ = tw.Flush()
}
