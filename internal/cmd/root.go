package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcobit/clawcrm/internal/render"
	"github.com/marcobit/clawcrm/pkg/client"
)

var (
	serverURL   string
	serverToken string
)

var rootCmd = &cobra.Command{
	Use:   "clawcrm",
	Short: "🦞 ClawCRM - admin dashboard for an OpenClaw gateway",
	Long: `# 🦞 ClawCRM

**Admin facade and CLI for an OpenClaw gateway.**

## ✨ Features

- 🌐 **HTTP facade** for the browser dashboard (` + "`clawcrm serve`" + `)
- 💬 **Chat** into gateway channels with reply watching
- ⏰ **Cron** job listing, toggling and triggering
- 📁 **Workspace files** and 🧩 **skills** rendered as markdown
- 🔧 **Config** viewer with secrets redacted

## 🚀 Getting Started

Run **clawcrm serve** next to a gateway, then point the other commands
(or the browser) at it.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(), "ClawCRM facade URL")
	rootCmd.PersistentFlags().StringVar(&serverToken, "token", os.Getenv("CLAWCRM_TOKEN"), "facade bearer token")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderMarkdownHelp(cmd)
	})
}

func defaultServerURL() string {
	if v := os.Getenv("CLAWCRM_SERVER"); v != "" {
		return v
	}
	return "http://127.0.0.1:3000"
}

// apiClient builds the facade client from the persistent flags.
func apiClient() *client.Client {
	return client.New(strings.TrimRight(serverURL, "/"), serverToken)
}

// renderMarkdownHelp renders command help as markdown.
func renderMarkdownHelp(cmd *cobra.Command) {
	var help strings.Builder

	if cmd.Long != "" {
		help.WriteString(cmd.Long)
		help.WriteString("\n\n")
	} else if cmd.Short != "" {
		help.WriteString("# " + cmd.Short + "\n\n")
	}

	help.WriteString("## 📖 Usage\n\n```bash\n")
	help.WriteString(cmd.UseLine())
	help.WriteString("\n```\n\n")

	if cmd.HasAvailableSubCommands() {
		help.WriteString("## 🔧 Available Commands\n\n")
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				help.WriteString(fmt.Sprintf("- **%s** - %s\n", sub.Name(), sub.Short))
			}
		}
		help.WriteString("\n")
	}

	if cmd.HasAvailableFlags() {
		if usages := cmd.Flags().FlagUsages(); usages != "" {
			help.WriteString("## ⚙️  Flags\n\n```\n")
			help.WriteString(usages)
			help.WriteString("```\n\n")
		}
	}

	fmt.Print(render.Markdown(help.String(), 100))
}
