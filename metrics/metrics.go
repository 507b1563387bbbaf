// Package metrics computes confusion matrices and derived accuracy,
// precision, recall, and F1 from finalized session results.
//
// Metrics are derived state: they are recomputed on demand over the full
// result sequence (resume recomputes over the accumulated set) and never
// mutated incrementally. Skipped records are excluded from every
// denominator. Undefined ratios (zero denominator) are represented as nil
// and serialize to JSON null; the engine never divides by zero.
package metrics

import "github.com/justapithecus/hilt/types"

// Snapshot is an immutable point-in-time metrics view, either
// *BinarySnapshot (classify) or *PairSnapshot (rank).
type Snapshot interface {
	// ScoredItems is the number of results the metrics were computed over.
	ScoredItems() int
	// OverallAccuracy is nil when no items were scored.
	OverallAccuracy() *float64
}

// BinaryConfusion is the 2x2 grid for classification, positive class = true.
type BinaryConfusion struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TN int `json:"tn"`
}

// PairConfusion is the 2x2 grid for ranking over labels {a, b}.
// AToB counts items with gold=a judged b, and so on.
type PairConfusion struct {
	AToA int `json:"a_to_a"`
	AToB int `json:"a_to_b"`
	BToA int `json:"b_to_a"`
	BToB int `json:"b_to_b"`
}

// ClassStats holds per-class precision/recall/F1.
// Nil values mean the ratio is undefined for this result set.
type ClassStats struct {
	Precision *float64 `json:"precision"`
	Recall    *float64 `json:"recall"`
	F1        *float64 `json:"f1"`
}

// BinarySnapshot is the classification metrics block.
type BinarySnapshot struct {
	Scored    int             `json:"scored"`
	Accuracy  *float64        `json:"accuracy"`
	Pos       ClassStats      `json:"pos"`
	Neg       ClassStats      `json:"neg"`
	Confusion BinaryConfusion `json:"confusion"`
}

// ScoredItems implements Snapshot.
func (s *BinarySnapshot) ScoredItems() int { return s.Scored }

// OverallAccuracy implements Snapshot.
func (s *BinarySnapshot) OverallAccuracy() *float64 { return s.Accuracy }

// PairSnapshot is the ranking metrics block.
type PairSnapshot struct {
	Scored    int           `json:"scored"`
	Accuracy  *float64      `json:"accuracy"`
	A         ClassStats    `json:"a"`
	B         ClassStats    `json:"b"`
	Confusion PairConfusion `json:"confusion"`
}

// ScoredItems implements Snapshot.
func (s *PairSnapshot) ScoredItems() int { return s.Scored }

// OverallAccuracy implements Snapshot.
func (s *PairSnapshot) OverallAccuracy() *float64 { return s.Accuracy }

// Compute builds the metrics snapshot for the task over finalized results.
func Compute(task types.Task, results []types.ItemResult) Snapshot {
	if task == types.TaskRank {
		return ComputePair(results)
	}
	return ComputeBinary(results)
}

// ComputeBinary computes classification metrics.
func ComputeBinary(results []types.ItemResult) *BinarySnapshot {
	var c BinaryConfusion
	for _, r := range results {
		gold, human := r.Gold.Bool(), r.Human.Bool()
		switch {
		case gold && human:
			c.TP++
		case !gold && human:
			c.FP++
		case gold && !human:
			c.FN++
		default:
			c.TN++
		}
	}
	total := c.TP + c.FP + c.FN + c.TN

	posP := ratio(c.TP, c.TP+c.FP)
	posR := ratio(c.TP, c.TP+c.FN)
	negP := ratio(c.TN, c.TN+c.FN)
	negR := ratio(c.TN, c.TN+c.FP)

	return &BinarySnapshot{
		Scored:    total,
		Accuracy:  ratio(c.TP+c.TN, total),
		Pos:       ClassStats{Precision: posP, Recall: posR, F1: f1(posP, posR)},
		Neg:       ClassStats{Precision: negP, Recall: negR, F1: f1(negP, negR)},
		Confusion: c,
	}
}

// ComputePair computes ranking metrics as a 2-class problem over {a, b}.
func ComputePair(results []types.ItemResult) *PairSnapshot {
	var c PairConfusion
	for _, r := range results {
		switch {
		case r.Gold == types.LabelA && r.Human == types.LabelA:
			c.AToA++
		case r.Gold == types.LabelA && r.Human == types.LabelB:
			c.AToB++
		case r.Gold == types.LabelB && r.Human == types.LabelA:
			c.BToA++
		case r.Gold == types.LabelB && r.Human == types.LabelB:
			c.BToB++
		}
	}
	total := c.AToA + c.AToB + c.BToA + c.BToB

	// For class a: TP=a_to_a, FN=a_to_b, FP=b_to_a; mirrored for b.
	aP := ratio(c.AToA, c.AToA+c.BToA)
	aR := ratio(c.AToA, c.AToA+c.AToB)
	bP := ratio(c.BToB, c.BToB+c.AToB)
	bR := ratio(c.BToB, c.BToB+c.BToA)

	return &PairSnapshot{
		Scored:    total,
		Accuracy:  ratio(c.AToA+c.BToB, total),
		A:         ClassStats{Precision: aP, Recall: aR, F1: f1(aP, aR)},
		B:         ClassStats{Precision: bP, Recall: bR, F1: f1(bP, bR)},
		Confusion: c,
	}
}

// ratio returns num/den, or nil when the denominator is zero.
func ratio(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	v := float64(num) / float64(den)
	return &v
}

// f1 is the harmonic mean of precision and recall, nil when either side is
// undefined or the sum is zero.
func f1(p, r *float64) *float64 {
	if p == nil || r == nil || *p+*r == 0 {
		return nil
	}
	v := 2 * *p * *r / (*p + *r)
	return &v
}
