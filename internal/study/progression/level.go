// Package progression converts study time into experience and levels.
//
// The same threshold curve drives character and topic leveling. Grants
// resolve any number of level-ups in one call, so splitting a grant into
// smaller pieces never changes where the character ends up.
package progression

import "math"

const (
	// ThresholdCoef scales the level curve.
	ThresholdCoef = 100.0
	// ThresholdExponent shapes the level curve.
	ThresholdExponent = 1.55
)

// Threshold returns the XP needed to advance from level to level+1.
func Threshold(level int) float64 {
	if level < 1 {
		level = 1
	}
	return math.Floor(ThresholdCoef * math.Pow(float64(level), ThresholdExponent))
}

// Progress is a level with the XP accumulated toward the next one.
type Progress struct {
	Level int     `json:"level"`
	XP    float64 `json:"xp"`
}

// Start is the progress of a new character or topic.
func Start() Progress {
	return Progress{Level: 1}
}

// Grant adds amount XP and resolves every level-up it causes. Negative,
// NaN or infinite amounts are ignored.
func Grant(p Progress, amount float64) (Progress, int) {
	p = Normalize(p)
	if !(amount > 0) || math.IsInf(amount, 0) {
		return p, 0
	}
	p.XP += amount
	levels := 0
	for p.XP >= Threshold(p.Level) {
		p.XP -= Threshold(p.Level)
		p.Level++
		levels++
	}
	return p, levels
}

// Normalize repairs a progress value read from outside the engine so that
// Level >= 1, XP >= 0 and XP < Threshold(Level).
func Normalize(p Progress) Progress {
	if p.Level < 1 {
		p.Level = 1
	}
	if !(p.XP > 0) || math.IsInf(p.XP, 0) {
		p.XP = 0
	}
	for p.XP >= Threshold(p.Level) {
		p.XP -= Threshold(p.Level)
		p.Level++
	}
	return p
}

// Total returns lifetime XP: every completed threshold plus current XP.
func Total(p Progress) float64 {
	total := p.XP
	for level := 1; level < p.Level; level++ {
		total += Threshold(level)
	}
	return total
}
