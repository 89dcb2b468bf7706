package facematch

// DefaultTolerance is the maximum distance at which two embeddings are
// considered the same person. Lower values are stricter.
const DefaultTolerance = 0.5

// Entry is one known student in a gallery snapshot.
type Entry struct {
	Identity  string
	Name      string
	Embedding Vector
}

// Verdict classifies a match attempt.
type Verdict string

const (
	VerdictMatched   Verdict = "matched"
	VerdictNoMatch   Verdict = "no_match"
	VerdictNoGallery Verdict = "no_gallery"
)

// Result is the outcome of Match. Entry is set only for VerdictMatched;
// Distance holds the best distance for both VerdictMatched and VerdictNoMatch.
type Result struct {
	Verdict  Verdict
	Entry    Entry
	Distance float64
}

// Matched reports whether the probe was accepted.
func (r Result) Matched() bool {
	return r.Verdict == VerdictMatched
}

// Match scans the whole gallery for the entry nearest to probe.
// Ties keep the first entry in gallery order. A best distance equal to the
// tolerance is still a match.
func Match(probe Vector, gallery []Entry, tolerance float64) Result {
	if len(gallery) == 0 {
		return Result{Verdict: VerdictNoGallery}
	}

	bestIdx := 0
	bestDist := EuclideanDistance(probe, gallery[0].Embedding)
	for i := 1; i < len(gallery); i++ {
		d := EuclideanDistance(probe, gallery[i].Embedding)
		if d < bestDist {
			bestIdx, bestDist = i, d
		}
	}

	if bestDist > tolerance {
		return Result{Verdict: VerdictNoMatch, Distance: bestDist}
	}
	return Result{Verdict: VerdictMatched, Entry: gallery[bestIdx], Distance: bestDist}
}
