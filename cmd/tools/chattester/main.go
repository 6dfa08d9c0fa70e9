package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	userID    string
	userName  string
	moodScore int
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "chattester",
	Short: "Exercise a running MindWell backend from the terminal",
	Long: `chattester sends requests to a running MindWell backend.

Examples:
  chattester health
  chattester tips 4
  chattester chat "I could not sleep last night" --mood 3
  chattester stream "What helps with racing thoughts?"
  chattester ws`,
	SilenceUsage: true,
}

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send one message to POST /api/chat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().Chat(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", resp.MoodAnalysis, resp.Response)
		return nil
	},
}

var streamCmd = &cobra.Command{
	Use:   "stream <message>",
	Short: "Send one message to POST /api/chat/stream and print deltas as they arrive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		resp, err := newClient().Stream(cmd.Context(), args[0], func(delta string) {
			fmt.Fprint(out, delta)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n[%s]\n", resp.MoodAnalysis)
		return nil
	},
}

var wsCmd = &cobra.Command{
	Use:   "ws",
	Short: "Hold an interactive conversation over GET /api/chat/ws",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient().Converse(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var tipsCmd = &cobra.Command{
	Use:   "tips <level>",
	Short: "Fetch GET /api/mood-tips/{level}",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("level must be an integer: %w", err)
		}
		tips, err := newClient().Tips(cmd.Context(), level)
		if err != nil {
			return err
		}
		for _, tip := range tips {
			fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", tip)
		}
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Fetch GET /health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := newClient().Health(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "status=%s groq_api=%s version=%s\n", status["status"], status["groq_api"], status["version"])
		return nil
	},
}

func newClient() *client {
	base := serverURL
	if base == "" {
		base = defaultServer()
	}
	return &client{
		baseURL:  base,
		userID:   userID,
		userName: userName,
		mood:     moodScore,
		timeout:  timeout,
	}
}

func defaultServer() string {
	if port := os.Getenv("PORT"); port != "" {
		return "http://localhost:" + port
	}
	return "http://localhost:8000"
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&serverURL, "server", "", "Backend base URL (default http://localhost:$PORT or :8000)")
	flags.StringVar(&userID, "user-id", "chattester", "Conversation user id")
	flags.StringVar(&userName, "user-name", "Tester", "Display name sent with chat requests")
	flags.IntVar(&moodScore, "mood", 5, "Mood score sent with chat requests")
	flags.DurationVar(&timeout, "timeout", 45*time.Second, "Per-request timeout")

	rootCmd.AddCommand(chatCmd, streamCmd, wsCmd, tipsCmd, healthCmd)
}

func main() {
	if err := godotenv.Load("mw.env"); err != nil {
		log.Printf("[chattester] mw.env not loaded, using system environment: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
