package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcobit/clawcrm/internal/render"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the gateway's installed skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		skills, err := apiClient().Skills(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range skills {
			fmt.Printf("%-20s %-12s %s\n", s.Name, s.Category, s.Description)
		}
		return nil
	},
}

var skillsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Render one skill's descriptor as markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skill, err := apiClient().Skill(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Print(render.Markdown(skill.Content, 100))
		return nil
	},
}

func init() {
	skillsCmd.AddCommand(skillsShowCmd)
	rootCmd.AddCommand(skillsCmd)
}
