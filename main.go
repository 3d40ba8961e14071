package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"voxtap/audio"
	"voxtap/clipboard"
	"voxtap/doctor"
	"voxtap/log"
	"voxtap/recorder"
	"voxtap/settings"
	"voxtap/transcriber"
)

var version = "dev"

func main() {
	recorderFlag := flag.String("recorder", recorder.DefaultBinary, "Capture utility binary")
	dbFlag := flag.String("db", "", "Settings database path (default: OS config dir)")
	providerFlag := flag.String("provider", "", "Transcription provider (default: stored setting)")
	modelFlag := flag.String("model", "", "Transcription model (default: stored setting)")
	langFlag := flag.String("lang", "", "Language hint, e.g. en (default: stored setting, empty = auto-detect)")
	fileFlag := flag.String("file", "", "Transcribe an existing audio file instead of recording")
	setKeyFlag := flag.String("set-key", "", "Store an API key in settings and exit")
	noClipFlag := flag.Bool("no-clipboard", false, "Do not copy the transcript to the clipboard")
	logPathFlag := flag.String("logpath", "", "Log directory path (default: OS-specific location)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	flag.Parse()

	// .env is optional; real env vars win over it.
	_ = godotenv.Load()

	if *versionFlag {
		fmt.Printf("voxtap %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	dbPath := *dbFlag
	if dbPath == "" {
		dbPath = settings.DefaultDBPath()
	}

	if *doctorFlag {
		os.Exit(doctor.Run(*recorderFlag, dbPath))
	}

	store, err := settings.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	stored, err := store.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *setKeyFlag != "" {
		// Provider/model/language flags are stored alongside the key;
		// absent optional values leave the stored ones untouched.
		err := store.Save(settings.Settings{
			Provider: firstNonEmpty(*providerFlag, stored.Provider),
			Model:    firstNonEmpty(*modelFlag, stored.Model),
			APIKey:   *setKeyFlag,
			Language: *langFlag,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Settings saved.")
		os.Exit(0)
	}

	provider := firstNonEmpty(*providerFlag, stored.Provider)
	if provider != "mistral" {
		fmt.Fprintf(os.Stderr, "Error: unsupported provider %q (only mistral is implemented)\n", provider)
		os.Exit(1)
	}
	model := firstNonEmpty(*modelFlag, stored.Model)
	language := firstNonEmpty(*langFlag, stored.Language)
	apiKey := firstNonEmpty(os.Getenv("MISTRAL_API_KEY"), stored.APIKey)
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "Error: no API key. Set MISTRAL_API_KEY or run: voxtap -set-key <key>")
		os.Exit(1)
	}

	rec := recorder.New(recorder.Config{Binary: *recorderFlag})
	tr := transcriber.NewMistral(model)

	if *fileFlag != "" {
		if err := transcribeFile(tr, *fileFlag, apiKey, language, model, !*noClipFlag); err != nil {
			log.Errorf("transcription failed: %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(rec, tr, os.Stdin, apiKey, language, model, !*noClipFlag); err != nil {
		log.Errorf("session failed: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// transcribeFile handles -file mode: an already-recorded audio file is
// sent straight to the transcriber.
func transcribeFile(tr transcriber.Transcriber, path, apiKey, language, model string, copyToClipboard bool) error {
	start := time.Now()
	text, err := tr.Transcribe(context.Background(), path, apiKey, language)
	if err != nil {
		return err
	}
	log.Transcription(tr.Name(), model, len(text), float64(time.Since(start).Milliseconds()))
	log.Transcript(text)

	fmt.Println(text)
	if copyToClipboard {
		if err := clipboard.Copy(text); err != nil {
			log.Warnf("clipboard copy failed: %v", err)
		}
	}
	return nil
}

func run(rec *recorder.Recorder, tr transcriber.Transcriber, input io.Reader, apiKey, language, model string, copyToClipboard bool) error {
	path, err := rec.Start()
	if err != nil {
		return err
	}
	log.Recording("recording_started", path)

	// Ctrl+C while recording discards the session instead of leaking
	// the capture process.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	fmt.Println("Recording... press Enter to stop, or type c + Enter to cancel.")

	lines := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(input)
		if scanner.Scan() {
			lines <- scanner.Text()
		} else {
			lines <- ""
		}
	}()

	select {
	case <-interrupt:
		_ = rec.Cancel()
		log.Recording("recording_cancelled", path)
		fmt.Println("\nCancelled.")
		return nil
	case line := <-lines:
		if strings.TrimSpace(line) == "c" {
			_ = rec.Cancel()
			log.Recording("recording_cancelled", path)
			fmt.Println("Cancelled.")
			return nil
		}
	}

	wavPath, err := rec.Stop()
	if err != nil {
		return err
	}
	log.Recording("recording_stopped", wavPath)
	defer os.Remove(wavPath)

	if err := audio.ValidateWAV(wavPath); err != nil {
		return err
	}
	if silent, err := audio.IsSilence(wavPath); err == nil && silent {
		log.Warn("recording is silent, skipping transcription")
		fmt.Println("No speech detected; nothing to transcribe.")
		return nil
	}

	fmt.Println("Transcribing...")
	start := time.Now()
	text, err := tr.Transcribe(context.Background(), wavPath, apiKey, language)
	if err != nil {
		return err
	}
	log.Transcription(tr.Name(), model, len(text), float64(time.Since(start).Milliseconds()))
	log.Transcript(text)

	fmt.Println(text)
	if copyToClipboard {
		if err := clipboard.Copy(text); err != nil {
			log.Warnf("clipboard copy failed: %v", err)
		} else {
			fmt.Println("(copied to clipboard)")
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
