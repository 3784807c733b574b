package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "List the gateway's cron jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := apiClient().CronJobs(cmd.Context())
		if err != nil {
			return err
		}
		for _, j := range jobs {
			next := ""
			if j.NextRun != nil {
				next = "next " + *j.NextRun
			}
			fmt.Printf("%-10s %-24s %-28s %s\n", j.Status, j.Name, j.Schedule, next)
		}
		return nil
	},
}

var cronToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Enable or disable a cron job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled, err := apiClient().ToggleCronJob(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if enabled {
			fmt.Printf("%s enabled\n", args[0])
		} else {
			fmt.Printf("%s disabled\n", args[0])
		}
		return nil
	},
}

var cronTriggerCmd = &cobra.Command{
	Use:   "trigger <id>",
	Short: "Run a cron job now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient().TriggerCronJob(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("triggered %s\n", args[0])
		return nil
	},
}

func init() {
	cronCmd.AddCommand(cronToggleCmd)
	cronCmd.AddCommand(cronTriggerCmd)
	rootCmd.AddCommand(cronCmd)
}
