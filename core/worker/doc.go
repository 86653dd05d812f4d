// Package worker implements the Worker Pool: isolated script execution off
// the main thread. Each worker owns its own goroutine and its own
// goja.Runtime, communicating with the pool through an outbound queue
// drained on the main thread via ProcessPendingMessages, and receiving
// messages through a per-worker buffered channel. No mutex or condition
// variable guards the inbound side; the message loop waits on the channel
// with a 100ms timeout to notice cancellation.
package worker
