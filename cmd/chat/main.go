package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"moxie-backend/internal/conversation"
	"moxie-backend/internal/models"
	"moxie-backend/internal/services"
)

var serverURL string

func main() {
	rootCmd := &cobra.Command{
		Use:   "moxie-chat",
		Short: "Terminal chat client for the Moxie relay backend",
		Long: `Interactive chat session against a running Moxie relay server.

Commands inside the session:
  /attach <path>   attach a .txt, .md or .pdf file to the next message
  /reset           clear the conversation back to the greeting
  /quit            exit`,
		RunE: run,
	}

	rootCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the relay server")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	client := conversation.New(serverURL)
	extract := services.NewFileExtractService()

	fmt.Println("Moxie: " + conversation.Greeting)

	var attachment *conversation.Attachment
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		prompt := "You: "
		if attachment != nil {
			prompt = fmt.Sprintf("You [%s]: ", attachment.Name)
		}
		fmt.Print(prompt)

		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit":
			return nil

		case line == "/reset":
			if err := client.Reset(); err != nil {
				fmt.Println("(cannot reset while a message is pending)")
				continue
			}
			attachment = nil
			fmt.Println("Moxie: " + conversation.Greeting)
			continue

		case strings.HasPrefix(line, "/attach "):
			path := strings.TrimSpace(strings.TrimPrefix(line, "/attach "))
			text, err := extract.ExtractTextFromPath(path)
			if err != nil {
				fmt.Printf("(attach failed: %v)\n", err)
				continue
			}
			attachment = &conversation.Attachment{Name: filepath.Base(path), Content: text}
			fmt.Printf("(attached %s, %d characters)\n", attachment.Name, len(text))
			continue
		}

		err := client.Send(cmd.Context(), line, attachment)
		if errors.Is(err, conversation.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			fmt.Printf("(send failed: %v)\n", err)
			continue
		}
		attachment = nil

		printLastReply(client)
	}
}

func printLastReply(client *conversation.Client) {
	log := client.Log()
	if len(log) == 0 {
		return
	}
	last := log[len(log)-1]
	if last.Role == models.RoleAssistant {
		fmt.Println("Moxie: " + last.Text)
	}
}
