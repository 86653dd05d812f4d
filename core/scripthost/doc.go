// Package scripthost owns one goja.Runtime "execution context": the
// console bindings, the schedule_after/cancel_scheduled timer globals, and
// a foreground task queue that timers and other async callbacks post to.
// Exactly one goroutine ever touches the Runtime; everything else
// communicates with it by posting tasks onto the queue.
package scripthost
