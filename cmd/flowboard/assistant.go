package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/flowboard/internal/client"
	"github.com/nhle/flowboard/internal/theme"
)

func newReportCmd(c *cli) *cobra.Command {
	var (
		userID   string
		language string
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a progress report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd)
			if err != nil {
				return err
			}
			if userID == "" {
				if me, err := app.client.Auth.Me(cmd.Context()); err == nil && me != nil {
					userID = me.ID
				}
			}

			blob, err := app.client.Functions.GenerateReport(cmd.Context(), userID, language)
			if err != nil {
				return fmt.Errorf("generating report: %w", err)
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, blob.Data, 0o644); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s (%s)\n", outPath, blob.ContentType)
				return nil
			}
			if !strings.HasPrefix(blob.ContentType, "text/") {
				return fmt.Errorf("report is %s, use --out to save it", blob.ContentType)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(blob.Data))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (default current user)")
	cmd.Flags().StringVar(&language, "lang", "", "report language (default fa)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the report to a file")
	return cmd
}

func newAskCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Ask the AI assistant a one-off question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd)
			if err != nil {
				return err
			}
			reply, err := app.client.Integrations.Core.InvokeLLM(cmd.Context(), client.LLMRequest{
				Prompt: strings.Join(args, " "),
			})
			if err != nil {
				return fmt.Errorf("asking assistant: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme.PanelStyle.Render(reply))
			return nil
		},
	}
}

func newChatCmd(c *cli) *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the in-app assistant, or show the conversation with --history",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if history {
				userID := ""
				if me, err := app.client.Auth.Me(cmd.Context()); err == nil && me != nil {
					userID = me.ID
				}
				messages, err := app.client.Chatbot.History(cmd.Context(), userID)
				if err != nil {
					return fmt.Errorf("loading chat history: %w", err)
				}
				if len(messages) == 0 {
					printEmpty(out, "messages")
					return nil
				}
				for _, m := range messages {
					fmt.Fprintf(out, "> %s\n%s\n\n", m.Message, m.Response)
				}
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("a message is required")
			}
			env, err := app.client.Chatbot.SendMessage(cmd.Context(), strings.Join(args, " "), nil)
			if err != nil {
				return fmt.Errorf("sending message: %w", err)
			}

			var reply struct {
				Response string `json:"response"`
			}
			if err := env.Decode(&reply); err != nil || reply.Response == "" {
				var text string
				if env.Decode(&text) == nil && text != "" {
					reply.Response = text
				} else {
					reply.Response = env.Message
				}
			}
			fmt.Fprintln(out, theme.PanelStyle.Render(reply.Response))
			return nil
		},
	}
	cmd.Flags().BoolVar(&history, "history", false, "show past messages")
	return cmd
}
