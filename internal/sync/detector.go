package sync

// changeClass is the outcome of comparing both sides of a linked issue
// against their stored baseline.
type changeClass int

const (
	classUnchanged changeClass = iota
	classOriginChanged
	classDestChanged
	classBothChanged
)

func (c changeClass) String() string {
	switch c {
	case classUnchanged:
		return "unchanged"
	case classOriginChanged:
		return "origin-changed"
	case classDestChanged:
		return "dest-changed"
	case classBothChanged:
		return "both-changed"
	default:
		return "unknown"
	}
}

// classify compares current fingerprints against the baseline. A side
// has moved when its fingerprint differs from the one stored after the
// last reconciliation. Both sides moving is always a conflict, no
// matter which edit came first.
func classify(originFP, destFP, baseOriginFP, baseDestFP string) changeClass {
	originMoved := originFP != baseOriginFP
	destMoved := destFP != baseDestFP

	switch {
	case originMoved && destMoved:
		return classBothChanged
	case originMoved:
		return classOriginChanged
	case destMoved:
		return classDestChanged
	default:
		return classUnchanged
	}
}
