// Package mkcore implements the build model of gsatkmk. A build is a
// [Project] of goals ([Goal]) that are reached by running actions ([Action]).
// The actual work of an action is done by its [Operation]. Builds are run by a
// [Builder] that reports its progress to a [Tracer] through a [Trace].
//
// The model uses idiomatic Go error handling. A more convenient way to define
// projects is provided by the editors of the [gsatkmk] package.
//
// [gsatkmk]: https://pkg.go.dev/git.fractalqb.de/fractalqb/gsatkmk
package mkcore
