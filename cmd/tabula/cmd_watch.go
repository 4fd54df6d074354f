package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchCmd re-runs sync whenever a schema file changes.
func watchCmd() *cobra.Command {
	var preserve bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the schemas directory and re-sync on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Initial pass before watching.
			runWatchedSync(preserve)

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()

			if err := watcher.Add(cfg.SchemasDir); err != nil {
				return err
			}
			printInfo("watching %s", cfg.SchemasDir)

			// Editors fire bursts of events per save; debounce them into
			// one sync run.
			var (
				timer   *time.Timer
				timerCh <-chan time.Time
			)

			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !isSchemaFile(event.Name) {
						continue
					}
					if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
						continue
					}
					if timer != nil {
						timer.Stop()
					}
					timer = time.NewTimer(250 * time.Millisecond)
					timerCh = timer.C

				case <-timerCh:
					timerCh = nil
					runWatchedSync(preserve)

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					printError("watch error: %v", err)
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&preserve, "preserve", "p", false, "Preserve data across full table rebuilds")

	return cmd
}

func isSchemaFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// runWatchedSync runs one sync pass with a fresh client, so edited schema
// files are re-read every time. Errors are reported but do not stop the
// watch loop.
func runWatchedSync(preserve bool) {
	client, err := newClient()
	if err != nil {
		printError("sync failed: %v", err)
		return
	}
	defer client.Close()

	results, err := client.SyncSchema(preserve)
	printResults(results)
	if err != nil {
		printError("sync failed: %v", err)
		return
	}
	printSuccess("schema synchronized")
}
