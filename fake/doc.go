// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the api interfaces: a
// backend that echoes its arguments back through the handles it returns,
// an in-memory stream, and a counting backend factory.
package fake
