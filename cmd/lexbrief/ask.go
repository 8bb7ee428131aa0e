package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/iyunix/lexbrief/internal/domain"
	"github.com/iyunix/lexbrief/internal/render"
	"github.com/iyunix/lexbrief/internal/ui/styles"
)

func init() {
	rootCmd.AddCommand(askCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Ask one question and print the answer",
	Long: `Ask sends a single query through the chat history, exactly as the
interactive client would, and prints the reply. With no arguments the
query is read from stdin, so a judgement can be piped in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		if query == "" {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			query = string(b)
		}
		if strings.TrimSpace(query) == "" {
			return fmt.Errorf("nothing to ask")
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		ctrl, err := a.controller()
		if err != nil {
			return err
		}
		ctrl.SetInput(query)
		if err := ctrl.Submit(cmd.Context()); err != nil {
			return err
		}

		msgs := ctrl.Messages()
		if len(msgs) == 0 {
			return fmt.Errorf("no reply recorded")
		}
		reply := msgs[len(msgs)-1]

		md := render.AssistantMarkdown(reply.Content)
		if p := render.PrecedentsMarkdown(reply.Precedents); p != "" {
			md += "\n\n" + p
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderForOutput(md, a.cfg.Theme))
		fmt.Fprintf(cmd.ErrOrStderr(), "\nsession %s\n%s\n", ctrl.ActiveID(), domain.Disclaimer)
		return nil
	},
}

// renderForOutput styles md with glamour when stdout is a terminal.
func renderForOutput(md, theme string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return md
	}
	width := render.DefaultWordWrap
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w - 4
	}
	r, err := render.NewTerminalRenderer(styles.ByName(theme).GlamourStyle, width)
	if err != nil {
		return md
	}
	return r.Render(md)
}
