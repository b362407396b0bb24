package mkcore

import (
	"time"
)

// Clean removes the artefacts of all removable goals of prj that are the
// result of an action. With dryrun, artefacts are only reported to the trace.
// Failing removals are reported as warnings.
func Clean(prj *Project, dryrun bool, tr *Trace) error {
	prj.LockBuild()
	defer prj.Unlock()
	start := time.Now()
	tr.startProject(prj, "cleaning")
	for _, g := range prj.Goals(nil) {
		if len(g.ResultOf()) == 0 || !g.Removable {
			continue
		}
		f, ok := g.Artefact.(RemovableArtefact)
		if !ok {
			continue
		}
		if err := tr.Ctx().Err(); err != nil {
			return err
		}
		str := tr.enter(g)
		if ok, err := f.Exists(prj); err != nil {
			str.Warn("cannot check `goal`: `error`", `goal`, g, `error`, err)
			continue
		} else if !ok {
			continue
		}
		str.tracer().RemoveArtefact(str, g)
		if !dryrun {
			if err := f.Remove(prj); err != nil {
				str.Warn(err.Error())
			}
		}
	}
	tr.tracer().DoneProject(tr, prj, "cleaning", time.Since(start))
	return nil
}
