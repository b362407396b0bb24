// Package gsatkmk builds the distributable gsatk module for one target. The
// external compiler writes the module, then the prelude of the target is put in
// front of it:
//
//	out/
//	├── build.tmp      compiled module, moved aside (removed again)
//	└── gsatk.py       prelude + compiled module
//
// A [Pipeline] runs the steps prepared, compiled, relocated, assembled and
// done. Each step is an abstract goal of an [mkcore.Project] that is reached
// by running its actions in order. Use [Diagrammer] to look at the project.
//
// The target is resolved from the language and define switches that are passed
// to the compiler with the [Targets] table of the [Config]:
//
//	language  define      file             prelude
//	--python  *           gsatk.py         Append_To_Beginning.py
//	*         JS_BROWSER  gsatk-browser.js Append_To_Beginning.txt
//
// Pipelines in [ModeClean] remove the output directory.
package gsatkmk
