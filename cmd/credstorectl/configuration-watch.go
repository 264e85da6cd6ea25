package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/credstore/pkg/config"
)

// configurationWatchCmd represents the configuration watch command
var configurationWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the config file and print attribute changes",
	Long: `Watch the config file and print the attributes that changed whenever
it is modified.

This is a troubleshooting aid: run it next to a server to see exactly how
an edit to the config file lands, including which values remain pinned by
environment variables.

Example:
  credstorectl configuration watch`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchConfiguration(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationWatchCmd)
}

func watchConfiguration() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	filename := cfg.ConfigFilePath()

	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("config file %s is not readable: %w", filename, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", filename, err)
	}

	fmt.Printf("Watching %s for configuration changes\n", filename)

	current := attributeMap(cfg)

	// Handle signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] Config file modified, reloading...\n", time.Now().Format(time.RFC3339))

				next, err := config.Load()
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error reloading configuration: %v\n", err)
					continue
				}

				updated := attributeMap(next)
				changed := false
				for _, attr := range next.Attributes() {
					if current[attr.Name] != updated[attr.Name] {
						fmt.Printf("  %s: %q -> %q (%s)\n", attr.Name, current[attr.Name], updated[attr.Name], attr.Source)
						changed = true
					}
				}
				if !changed {
					fmt.Println("  no effective changes")
				}
				current = updated
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}

func attributeMap(cfg *config.Config) map[string]string {
	values := make(map[string]string)
	for _, attr := range cfg.Attributes() {
		values[attr.Name] = attr.Value
	}
	return values
}
