// Package verify provides the structural consistency checker for heaps.
// Every function is a pure read of the heap bytes: the checker walks the
// block sequence and the free-list table and confirms the invariants the
// allocator maintains. It is used by tests and by the heap's debug mode.
package verify
