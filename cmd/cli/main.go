package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/ltnguyen02/tiny-range-index-go/cmd/cli/tui"
	"github.com/ltnguyen02/tiny-range-index-go/internal/config"
	"github.com/ltnguyen02/tiny-range-index-go/internal/driver"
	"github.com/ltnguyen02/tiny-range-index-go/internal/journal"
	journalformatter "github.com/ltnguyen02/tiny-range-index-go/internal/journal/formatter"
	journalstorage "github.com/ltnguyen02/tiny-range-index-go/internal/journal/storage"
	"github.com/ltnguyen02/tiny-range-index-go/internal/journalstream"
	"github.com/ltnguyen02/tiny-range-index-go/internal/replay"
	"github.com/ltnguyen02/tiny-range-index-go/internal/sequence"
	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
	"github.com/ltnguyen02/tiny-range-index-go/internal/utils"
)

func main() {
	configPath := flag.String("config", "./samples/config.json", "path to the run config (JSON)")
	tmpDir := flag.String("dir", "./tmp", "working directory for journal and snapshot files")
	useTUI := flag.Bool("tui", false, "start the interactive TUI instead of a batch run")
	streamJournal := flag.Bool("stream-journal", false, "stream journal entries to the logger")
	verify := flag.Bool("verify", false, "after a batch run, re-execute the journal and cross-check it")
	useMmap := flag.Bool("mmap", false, "use the mmap journal storage backend")
	flag.Parse()

	if err := os.MkdirAll(*tmpDir, 0755); err != nil {
		fmt.Println("Error creating working directory:", err)
		os.Exit(1)
	}

	cfgLoader := &config.ConfigImpl{}
	cfg, err := cfgLoader.LoadConfig(*configPath)
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	env := utils.NewDefaultUtils(*tmpDir, *tmpDir, slog.LevelInfo, nil)

	journalPath, seqNo, err := env.GenNextJournalPath()
	if err != nil {
		fmt.Println("Error generating journal path:", err)
		os.Exit(1)
	}

	journalFormatter := journalformatter.NewJSONFormatter()
	var store types.Storage
	if *useMmap {
		store, err = journalstorage.NewFileMMapStorage(journalPath, seqNo)
	} else {
		store, err = journalstorage.NewFileStorage(journalPath, seqNo)
	}
	if err != nil {
		fmt.Println("Error creating journal storage:", err)
		os.Exit(1)
	}

	jnl, err := journal.NewJournal(journalPath, seqNo, journalFormatter, store)
	if err != nil {
		fmt.Println("Error opening journal:", err)
		os.Exit(1)
	}

	ctx := &types.Context{
		Journal: jnl,
		Utils:   env,
	}

	seq, err := sequence.New(cfg.Weights)
	if err != nil {
		fmt.Println("Error building sequence:", err)
		os.Exit(1)
	}

	var streamer journalstream.Streamer
	if *streamJournal {
		fmt.Println("Journal streaming is enabled.")
		streamer = journalstream.NewLogStreamer(env.GetLogger())
	} else {
		streamer = journalstream.NewNoOpStreamer()
	}

	sys, err := driver.NewSystem(ctx, seq, &driver.SystemOptional{
		FlushAfterNSteps: 5,
		Modulus:          cfg.Modulus,
		Streamer:         streamer,
	})
	if err != nil {
		fmt.Println("System startup error:", err)
		os.Exit(1)
	}

	if *useTUI {
		runTUI(sys)
		return
	}

	runBatch(sys, cfg, journalPath, journalFormatter, *verify)
}

func runBatch(sys *driver.System, cfg types.ConfigRun, journalPath string, format types.LogFormatter, verify bool) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)

		fmt.Printf("Initial best non-adjacent sum: %d\n", sys.Best())
		total, err := sys.Run(cfg.Updates)
		if err != nil {
			fmt.Println("Run aborted:", err)
			return
		}
		fmt.Printf("Applied %d updates. Running total: %d\n", len(cfg.Updates), total)
		fmt.Printf("Final weights: %v\n", sys.State())
	}()

	select {
	case <-done:
	case <-sigChan:
		fmt.Println("Shutting down gracefully...")
	}

	sys.Stop()

	if verify {
		// Only this run's segment: older files in the directory belong to
		// previous runs with their own starting weights.
		report, err := replay.VerifyJournal([]string{journalPath}, cfg.Weights, cfg.Modulus, format)
		if err != nil {
			fmt.Println("Verification failed:", err)
			os.Exit(1)
		}
		if report.OK() {
			fmt.Printf("Journal verified: %d steps match.\n", report.Steps)
		} else {
			fmt.Printf("Journal verification found %d mismatches:\n", len(report.Mismatches))
			for _, m := range report.Mismatches {
				fmt.Println("  ", m)
			}
			os.Exit(1)
		}
	}
}

func runTUI(sys *driver.System) {
	defer sys.Stop()

	p := bubbletea.NewProgram(tui.NewModel(sys))
	if _, err := p.Run(); err != nil {
		fmt.Println("TUI error:", err)
		os.Exit(1)
	}
}
