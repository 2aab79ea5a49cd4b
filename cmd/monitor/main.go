package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"

	"github.com/icewatch/ice-news-monitor/internal/application"
	"github.com/icewatch/ice-news-monitor/internal/service"
)

var (
	Version   string = "dev"
	Commit    string = "unknown"
	BuildTime string = "unknown"
)

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		dryRun      = flag.Bool("dry-run", false, "Detect and translate but skip delivery and persistence")
		preview     = flag.Bool("preview", true, "Print a plain-text preview of the notification")
	)
	flag.Parse()

	if *showHelp {
		fmt.Printf("Ice News Monitor\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment Variables:\n")
		fmt.Printf("  TELEGRAM_BOT_TOKEN    Telegram bot token (required)\n")
		fmt.Printf("  TELEGRAM_CHAT_ID      Telegram chat or @channel ID (required)\n")
		fmt.Printf("  NEWS_URL              News page URL\n")
		fmt.Printf("  STATE_BACKEND         State backend: file or cloud-storage (default: file)\n")
		fmt.Printf("  STATE_FILE            Seen-record path for the file backend\n")
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("Ice News Monitor\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	app, err := application.New()
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer app.Close()

	result, err := app.Monitor.Run(context.Background(), *dryRun)
	if err != nil {
		var stageErr *service.StageError
		if errors.As(err, &stageErr) {
			log.Fatalf("❌ Run failed at %s stage: %v", stageErr.Stage, stageErr.Err)
		}
		log.Fatalf("❌ Run failed: %v", err)
	}

	if result.Status != service.StatusUnchanged && *preview {
		printPreview(result.Message)
	}

	switch result.Status {
	case service.StatusUnchanged:
		log.Printf("📋 No new updates available")
	case service.StatusDryRun:
		log.Printf("✅ Dry run complete (nothing sent, state unchanged)")
	case service.StatusNotified:
		log.Printf("🎉 Notification sent for: %s", result.Item.Title)
	}
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// printPreview prints a plain-text rendering of the HTML message.
func printPreview(message string) {
	separator := "------------------------------------------------------------"
	fmt.Println(separator)
	fmt.Println(htmlTagRe.ReplaceAllString(message, ""))
	fmt.Println(separator)
}
