package gsatkmk

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"git.fractalqb.de/fractalqb/gsatkmk/mkcore"
)

// Diagrammer writes a project as a Graphviz digraph. Goals are boxes, actions
// are rounded boxes and the edges from actions to goals are numbered in the
// order the actions are run.
type Diagrammer struct {
	RankDir string
	// Reached, if set, marks the goals reached by a build. E.g. use
	// [mkcore.Builder.Reached].
	Reached func(*mkcore.Goal) bool
}

func (dia *Diagrammer) WriteDot(w io.Writer, prj *mkcore.Project) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicErr(p)
		}
	}()
	fmt.Fprintf(w, "digraph \"%s\" {\n", escDotID(prj.Name(nil)))
	if dia.RankDir != "" {
		fmt.Fprintf(w, "\trankdir=\"%s\"\n", escDotID(dia.RankDir))
	}
	for _, g := range prj.Goals(nil) {
		dia.goal(w, g)
	}
	for _, a := range prj.Actions() {
		dia.action(w, a)
	}
	_, err = fmt.Fprintln(w, "}")
	return err
}

func (dia *Diagrammer) goal(w io.Writer, g *mkcore.Goal) {
	var style []string
	if g.IsAbstract() {
		style = append(style, "dashed")
	}
	if len(g.ResultOf()) == 0 || len(g.PremiseOf()) == 0 {
		style = append(style, "bold")
	}
	if dia.Reached != nil && dia.Reached(g) {
		style = append(style, "filled")
	}
	shape, label := "box", escDotID(g.Name())
	if !g.IsAbstract() {
		tn := reflect.Indirect(reflect.ValueOf(g.Artefact)).Type().Name()
		shape, label = "record", fmt.Sprintf("{%s|%s}", tn, label)
	}
	fmt.Fprintf(w, "\t\"%p\" [shape=%s,style=\"%s\",label=\"%s\"];\n",
		g,
		shape,
		strings.Join(style, ","),
		label,
	)
}

func (dia *Diagrammer) action(w io.Writer, a *mkcore.Action) {
	if a.Op == nil {
		fmt.Fprintf(w, "\t\"%p\" [shape=point];\n", a)
	} else {
		style := "rounded"
		if a.IgnoreError {
			style += ",dotted"
		}
		fmt.Fprintf(w, "\t\"%p\" [shape=box,style=\"%s\",label=\"%s\"];\n",
			a,
			style,
			escDotID(a.String()),
		)
	}
	for _, pre := range a.Premises() {
		fmt.Fprintf(w, "\t\"%p\" -> \"%p\";\n", pre, a)
	}
	for _, res := range a.Results() {
		if len(res.ResultOf()) > 1 {
			fmt.Fprintf(w, "\t\"%p\" -> \"%p\" [label=\"%d\"];\n",
				a,
				res,
				slices.Index(res.ResultOf(), a)+1,
			)
		} else {
			fmt.Fprintf(w, "\t\"%p\" -> \"%p\";\n", a, res)
		}
	}
}

func escDotID(id string) string {
	return strings.ReplaceAll(id, "\"", "\\\"")
}
