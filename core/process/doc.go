// Package process implements the Process Manager: spawning and
// supervising child processes with three piped streams and asynchronous
// I/O delivery. A goroutine-per-stream reader replaces the original's
// select()-based poll loop, which is the idiomatic Go substitute for
// multiplexed blocking reads.
package process
