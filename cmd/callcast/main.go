// Command callcast runs an outbound voice-call campaign: it reads phone
// numbers from a CSV or XLSX file, uploads an audio file for a public URL,
// and places one call per number that plays the audio.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandhyasneha/it-project-planner/internal/broadcast"
	"github.com/sandhyasneha/it-project-planner/internal/config"
	"github.com/sandhyasneha/it-project-planner/internal/logging"
	"github.com/sandhyasneha/it-project-planner/internal/phonelist"
	"github.com/sandhyasneha/it-project-planner/internal/telephony"
	"github.com/sandhyasneha/it-project-planner/internal/upload"
)

func main() {
	listPath := flag.String("list", "", "CSV or XLSX file with a Phone column")
	audioPath := flag.String("audio", "", "audio file to play to each callee")
	audioURL := flag.String("audio-url", "", "already-hosted audio URL (skips upload)")
	dedup := flag.Bool("dedup", true, "skip duplicate numbers")
	flag.Parse()

	if *listPath == "" || (*audioPath == "" && *audioURL == "") {
		fmt.Fprintln(os.Stderr, "usage: callcast -list numbers.csv -audio message.mp3")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.App.LogLevel, false)

	numbers, err := phonelist.Load(*listPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read phone list: %v\n", err)
		os.Exit(1)
	}
	if len(numbers) == 0 {
		fmt.Fprintln(os.Stderr, "phone list is empty")
		os.Exit(1)
	}

	playURL := *audioURL
	if playURL == "" {
		content, err := os.ReadFile(*audioPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read audio file: %v\n", err)
			os.Exit(1)
		}
		uploader := upload.NewClient(cfg.GitHub.Token, cfg.GitHub.Repo, cfg.GitHub.Path)
		playURL, err = uploader.Upload(filepath.Base(*audioPath), content)
		if err != nil {
			fmt.Fprintf(os.Stderr, "upload audio: %v\n", err)
			os.Exit(1)
		}
		logger.Info("audio uploaded", "url", playURL)
	}

	dialer := telephony.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.CallerID)
	if !dialer.Configured() {
		fmt.Fprintln(os.Stderr, "TWILIO_SID, TWILIO_AUTH_TOKEN, and TWILIO_PHONE_NUMBER are required")
		os.Exit(1)
	}

	campaign := broadcast.NewCampaign(dialer, nil, *dedup, logger.With("component", "campaign"))
	report := campaign.Run(numbers, playURL)

	fmt.Printf("campaign %s: %d calls placed, %d failed\n", report.RunID, len(report.CallSIDs), len(report.Failed))
	for number, sid := range report.CallSIDs {
		fmt.Printf("  placed  %-16s %s\n", number, sid)
	}
	for _, f := range report.Failed {
		fmt.Printf("  failed  %-16s %s\n", f.Recipient, f.Err)
	}
	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}
