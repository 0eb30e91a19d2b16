package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hitoshi/smarttime/internal/theme"
)

// themeCmd はパレットを表示する。キーを指定した場合はその色だけを表示する。
func themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark] [KEY]",
		Short: "Show the color palette",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			variant := theme.VariantLight
			if len(args) > 0 {
				variant = args[0]
			}
			p, ok := theme.ByName(variant)
			if !ok {
				return fmt.Errorf("unknown theme %q", variant)
			}

			out := cmd.OutOrStdout()
			if len(args) == 2 {
				v, ok := p.Get(args[1])
				if !ok {
					return fmt.Errorf("unknown color key %q", args[1])
				}
				fmt.Fprintln(out, v)
				return nil
			}

			w := newTable(out)
			m := p.Map()
			for _, k := range theme.Keys() {
				fmt.Fprintf(w, "%s\t%s\n", k, m[k])
			}
			return w.Flush()
		},
	}
}
