// Package window defines the window model and the boundary to the
// windowing system.
//
// Enumeration, positioning and minimize/restore are reached only through
// the [Enumerator], [Placer] and [StateController] interfaces. The package
// ships implementations that do not touch the operating system: a
// [FileEnumerator] that reads window lists from YAML or JSON files, a
// [StaticEnumerator] for fixed lists, and a [Recorder] that logs and
// records every placement and state change instead of applying it.
package window
