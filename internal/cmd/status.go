package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	onlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show gateway status",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := apiClient().Status(cmd.Context())
		if err != nil {
			return err
		}

		state := onlineStyle.Render("● online")
		if !status.Online {
			state = offlineStyle.Render("● offline")
		}
		fmt.Printf("%s  gateway %s (port %d)\n", state, status.Version, status.Port)
		fmt.Printf("%s %s/%s\n", labelStyle.Render("model:"), status.Provider, status.Model)
		fmt.Printf("%s %d\n", labelStyle.Render("channels:"), status.ChannelCount)
		for agent, model := range status.AgentModels {
			fmt.Printf("%s %s → %s\n", labelStyle.Render("agent:"), agent, model)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
