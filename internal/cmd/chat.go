package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcobit/clawcrm/internal/render"
	"github.com/marcobit/clawcrm/pkg/client"
)

var (
	chatChannel string
	chatNoWait  bool
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send a chat message and wait for the reply",
	Long: `# 💬 clawcrm chat

Sends one message into a gateway channel. Slash commands (` + "`/help`" + `,
` + "`/status`" + `, ` + "`/cron`" + `, ` + "`/skills`" + `) are answered locally by the facade;
anything else goes to the channel and the command polls for the bot's reply.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := apiClient()

		// Snapshot the channel so the watcher only reports new replies.
		var seen []string
		if messages, err := api.Messages(cmd.Context(), chatChannel, 10, ""); err == nil {
			for _, m := range messages {
				seen = append(seen, m.ID)
			}
		}

		response, err := api.Chat(cmd.Context(), chatChannel, args[0])
		if err != nil {
			return err
		}

		switch response.Type {
		case "local":
			fmt.Print(render.Markdown(response.Content, 100))
			return nil
		case "clear":
			fmt.Println("(display cleared)")
			return nil
		}

		if chatNoWait {
			fmt.Println("sent")
			return nil
		}

		watcher := client.NewReplyWatcher(api, 2*time.Second, 15)
		reply, err := watcher.Watch(cmd.Context(), chatChannel, seen)
		if err != nil {
			return err
		}
		if reply == nil {
			fmt.Println("sent (no reply yet)")
			return nil
		}
		fmt.Printf("%s:\n%s", reply.Author.Username, render.Markdown(reply.Content, 100))
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatChannel, "channel", "", "channel id to send into")
	chatCmd.Flags().BoolVar(&chatNoWait, "no-wait", false, "do not poll for a reply")
	chatCmd.MarkFlagRequired("channel")
	rootCmd.AddCommand(chatCmd)
}
