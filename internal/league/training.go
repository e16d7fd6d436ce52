package league

import "math/rand/v2"

// Focus is the attribute a training session works on.
type Focus string

const (
	FocusStrength  Focus = "strength"
	FocusTechnique Focus = "technique"
	FocusSpeed     Focus = "speed"
	FocusMorale    Focus = "morale"
)

// trainingStream keeps training draws apart from the match stream of the
// same week.
const trainingStream = 0x7a1b

const (
	maxAttribute     = 100
	recoveryChance   = 0.25
	maxMoraleGain    = 2
	maxAttributeGain = 3
)

// Train improves one attribute. Injured players do not train.
func (p *Player) Train(focus Focus, rng *rand.Rand) {
	if p.Injured {
		return
	}
	switch focus {
	case FocusStrength:
		p.Strength = min(maxAttribute, p.Strength+1+rng.IntN(maxAttributeGain))
	case FocusTechnique:
		p.Technique = min(maxAttribute, p.Technique+1+rng.IntN(maxAttributeGain))
	case FocusSpeed:
		p.Speed = min(maxAttribute, p.Speed+1+rng.IntN(maxAttributeGain))
	case FocusMorale:
		p.Morale += 1 + rng.IntN(maxMoraleGain)
	}
	p.Morale = max(0, min(maxAttribute, p.Morale))
}

// TickWeek serves one week of suspension and gives injured players a
// chance to recover.
func (p *Player) TickWeek(rng *rand.Rand) {
	if p.Suspended > 0 {
		p.Suspended--
	}
	if p.Injured && rng.Float64() < recoveryChance {
		p.Injured = false
	}
}

// tickSquads moves every squad player of clubs on by one week.
func tickSquads(clubs []*Club, rng *rand.Rand) {
	for _, c := range clubs {
		for _, p := range c.Squad {
			p.TickWeek(rng)
		}
	}
}

// TrainingRand is the source for a training session held in week of season.
func TrainingRand(seed int64, season, week int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed)^trainingStream, uint64(season)<<32|uint64(uint32(week))))
}

// TrainSquad runs one session for every squad player.
func (c *Club) TrainSquad(focus Focus, rng *rand.Rand) {
	for _, p := range c.Squad {
		p.Train(focus, rng)
	}
}
