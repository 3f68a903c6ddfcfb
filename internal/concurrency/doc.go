// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Task execution primitives behind the eventloop runtime: a resizable
// worker pool fed from a single FIFO task queue.
package concurrency
