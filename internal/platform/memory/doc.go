// Package memory provides an in-memory browser host. It implements every
// platform interface against a simulated set of windows, tabs, menu items and
// a toolbar badge, and emits the events a real browser would emit when that
// state changes. The CLI simulator, the MCP server and the tests drive it.
package memory
