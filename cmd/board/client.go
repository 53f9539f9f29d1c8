package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/messageboard/internal/client"
	"github.com/vovakirdan/messageboard/internal/proto"
)

func newPostCmd(c *cli) *cobra.Command {
	var name, message string

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a message to the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := client.New(c.cfg.APIBaseURL).PostMessage(cmd.Context(), name, message)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "posted %s: %s\n", data.Name, data.Message)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "your name")
	cmd.Flags().StringVarP(&message, "message", "m", "", "message text")
	return cmd
}

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every message on the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := client.New(c.cfg.APIBaseURL).ListMessages(cmd.Context())
			if err != nil {
				return err
			}
			renderMessages(cmd.OutOrStdout(), records)
			return nil
		},
	}
}

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print messages as they are posted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return client.New(c.cfg.APIBaseURL).Watch(ctx, func(r proto.MessageRecord) {
				fmt.Fprintf(out, "[%s] %s: %s\n", formatTime(r.Timestamp), r.Name, r.Message)
			})
		},
	}
}

func renderMessages(w io.Writer, records []proto.MessageRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Time", "Name", "Message"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for i, r := range records {
		table.Append([]string{fmt.Sprint(i + 1), formatTime(r.Timestamp), r.Name, r.Message})
	}
	table.Render()
}

func formatTime(ts *time.Time) string {
	if ts == nil {
		return "-"
	}
	return ts.Local().Format("15:04")
}
