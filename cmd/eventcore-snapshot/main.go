// Command eventcore-snapshot opens the configured persistent store and
// writes its full state snapshot to stdout as JSON. Intended for backups and
// for inspecting a deployment's data offline.
//
// Storage selection follows the EVENTCORE_STORAGE_* environment variables.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"eventcore/internal/core"
	"eventcore/internal/infra/persistence/memory"
)

type stateExporter interface {
	ExportState() memory.Snapshot
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "eventcore-snapshot:", err)
		os.Exit(1)
	}
}

func run() error {
	store, err := core.OpenPersistentStore(core.NewDefaultRulesEngine())
	if err != nil {
		return err
	}
	exporter, ok := store.(stateExporter)
	if !ok {
		return fmt.Errorf("store driver does not support snapshot export")
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(exporter.ExportState())
}
