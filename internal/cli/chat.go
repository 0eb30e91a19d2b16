package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func chatCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "chat MESSAGE...",
		Short: "Send a message to the scheduling assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := strings.TrimSpace(strings.Join(args, " "))
			if msg == "" {
				return errors.New("message is empty")
			}

			ctx, cancel := rt.context(cmd)
			defer cancel()

			reply, err := rt.client.Chat.SendMessage(ctx, msg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply.Reply)
			return nil
		},
	}
}
