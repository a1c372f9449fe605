// Package sim provides the discrete-event engine for the factory cart simulation.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: timed callbacks and the Clock interface components plan against
//   - simulator.go: the Scheduler event loop (time, FIFO ordering of same-time events)
//   - cart.go: the cart's slot/weight model and hop-by-hop movement
//   - controller.go: request admission, batching, escalation and failure detection
//
// # Architecture
//
// The sim package owns the core state machines; supporting concerns live in
// sub-packages:
//   - sim/trace/: decision trace recording (pure data, no dependency on sim)
//   - sim/workload/: scenario files, request generation and the scenario runner
//   - sim/observability/: Prometheus collector implementing the controller Observer
//
// Every component receives its Clock explicitly; there is no package-level scheduler.
// All state changes happen inside Scheduler-dispatched callbacks, so the package is
// single-threaded by construction.
//
// # Key Types
//
//   - Scheduler: logical clock and ordered callback queue
//   - Layout: station graph with shortest-path travel times
//   - Cart: position, motion status and capacity-limited slots
//   - CargoReq: a pickup/delivery unit of work with lifecycle hooks
//   - CartCtl: the controller driving the cart from its backlog
package sim
