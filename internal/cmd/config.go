package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marcobit/clawcrm/internal/render"
)

var configCollapsed bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the gateway configuration (secrets redacted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := apiClient().Config(cmd.Context())
		if err != nil {
			return err
		}

		expand := render.DefaultExpand("$")
		if !configCollapsed {
			expand = expandAll(value, "$")
		}
		for _, line := range render.Lines(render.Tree(value, "$", expand)) {
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&configCollapsed, "collapsed", false, "show only the top level")
	rootCmd.AddCommand(configCmd)
}

// expandAll opens every container node under value.
func expandAll(value any, path string) map[string]bool {
	expand := map[string]bool{}
	var walk func(v any, p string)
	walk = func(v any, p string) {
		switch v := v.(type) {
		case map[string]any:
			expand[p] = true
			for k, child := range v {
				walk(child, p+"."+k)
			}
		case []any:
			expand[p] = true
			for i, child := range v {
				walk(child, p+"["+strconv.Itoa(i)+"]")
			}
		}
	}
	walk(value, path)
	return expand
}
