// Package tasks drives server-side automation runs and reconciles their progress into client state.
//
// # Run Lifecycle
//
// [Controller.Start] validates the search criteria, supersedes any attached run, resets
// progress, asks the backend to start and then opens the user's push channel. A background
// reader reduces channel events into [RunState]:
//
//   - status : progress derived with [NextProgress]
//   - complete : results and [models.RunSummary], handed to the [ResultSink]
//   - error : the backend message is shown and the run is released
//   - heartbeat : ignored
//
// A channel that ends without a terminal event releases the run silently. Cancellation,
// [Controller.Detach] and superseding never notify.
//
// # Progress Reporting
//
// Every state change publishes a [RunState] snapshot to the registered [Observer]. Observers run
// outside the controller lock; snapshots carry a monotonically increasing Seq so consumers can
// discard late deliveries. [Notifier] calls happen under the lock and must not block.
package tasks
