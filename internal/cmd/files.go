package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcobit/clawcrm/internal/render"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Browse the gateway workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := apiClient().Files(cmd.Context())
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Printf("%-8s %8d  %s\n", f.Group, f.Size, f.Path)
		}
		return nil
	},
}

var filesShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Render one workspace file as markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := apiClient().File(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if strings.HasSuffix(file.Name, ".md") {
			fmt.Print(render.Markdown(file.Content, 100))
		} else {
			fmt.Print(file.Content)
		}
		return nil
	},
}

var filesEditCmd = &cobra.Command{
	Use:   "put <path> <local-file>",
	Short: "Overwrite one workspace file from a local file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[1], err)
		}
		if err := apiClient().PutFile(cmd.Context(), args[0], string(content)); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", args[0])
		return nil
	},
}

func init() {
	filesCmd.AddCommand(filesShowCmd)
	filesCmd.AddCommand(filesEditCmd)
	rootCmd.AddCommand(filesCmd)
}
