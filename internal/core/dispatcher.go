package core

import (
	"context"

	"eventcore/internal/infra/persistence/memory"
)

// stateExporter is satisfied by stores whose full state can be captured as a
// snapshot. The in-memory store implements it directly; the durable stores
// implement it through their embedded in-memory engine.
type stateExporter interface {
	ExportState() memory.Snapshot
}

// stateImporter is satisfied by stores that can be rebased onto a snapshot.
type stateImporter interface {
	ImportState(memory.Snapshot)
}

// Dispatcher pairs a speculative client runtime with the authoritative server
// runtime. Mutations run on both: the client applies immediately for latency,
// the server applies for durability, and the server outcome always wins. After
// a server round the client replica is rebased onto the server's state, which
// discards any speculative divergence.
type Dispatcher struct {
	client *Runtime
	server *Runtime
}

// NewDispatcher wires a dispatcher over an existing client/server runtime
// pair. The client runtime must be backed by a store that supports snapshot
// import, and the server store must support snapshot export.
func NewDispatcher(client, server *Runtime) *Dispatcher {
	return &Dispatcher{client: client, server: server}
}

// Client returns the speculative runtime.
func (d *Dispatcher) Client() *Runtime {
	return d.client
}

// Server returns the authoritative runtime.
func (d *Dispatcher) Server() *Runtime {
	return d.server
}

// Apply executes the mutation speculatively on the client, then
// authoritatively on the server, then rebases the client replica onto the
// server's committed state. The returned error is the server's verdict; a
// client-side failure alone does not block the authoritative run, since the
// replica may be stale.
func (d *Dispatcher) Apply(ctx context.Context, actor *Actor, mutation Mutation) error {
	// Speculative run. Errors here are advisory only.
	_ = d.client.Apply(ctx, actor, mutation)

	serverErr := d.server.Apply(ctx, actor, mutation)

	d.Rebase()
	return serverErr
}

// Rebase overwrites the client replica with the server's committed state.
// It is a no-op when either store does not support snapshot transfer.
func (d *Dispatcher) Rebase() {
	exporter, ok := d.server.Service().Store().(stateExporter)
	if !ok {
		return
	}
	importer, ok := d.client.Service().Store().(stateImporter)
	if !ok {
		return
	}
	importer.ImportState(exporter.ExportState())
}
