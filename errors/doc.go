// Package errors provides structured error types for the object runtime.
//
// Errors carry a Phase (where in the object lifecycle the failure happened)
// and a Kind (what went wrong), plus optional class/slot/path context. Two
// errors match under errors.Is when their Phase and Kind agree, so callers
// can classify failures without string matching:
//
//	_, err := object.Create(cls, parent, 0)
//	if errors.Is(err, &rterrors.Error{
//	    Phase: rterrors.PhaseConstruct,
//	    Kind:  rterrors.KindConstructionFailed,
//	}) {
//	    // a base constructor failed; the instance was unwound and freed
//	}
//
// Use the convenience constructors for common cases, or the Builder when
// more context is available:
//
//	return rterrors.New(rterrors.PhaseDispatch, rterrors.KindUnresolvedDispatch).
//	    Slot("chooseKindZ").
//	    Detail("axis %s has no covering rule", axis.Name()).
//	    Build()
package errors
