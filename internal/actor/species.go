package actor

import "fmt"

// SpeedTier controls how often an adversary acts.
type SpeedTier int

const (
	SpeedSlowest SpeedTier = iota + 1
	SpeedSlow
	SpeedNormal
	SpeedFast
)

// ReadyThreshold is the readiness an adversary must accumulate to act.
const ReadyThreshold = int(SpeedFast)

// SmartTier selects the movement behaviour.
type SmartTier int

const (
	SmartLow    SmartTier = iota + 1 // patrol in a straight line
	SmartNormal                      // flee the avatar
	SmartHigh                        // flee the oldest bomb, else the avatar
)

// Species is the static description of an adversary kind.
type Species struct {
	Name     string
	Points   int
	Speed    SpeedTier
	Smart    SmartTier
	Wallpass bool
}

var (
	Balloom  = Species{Name: "Balloom", Points: 100, Speed: SpeedSlow, Smart: SmartLow}
	Oneal    = Species{Name: "Oneal", Points: 200, Speed: SpeedNormal, Smart: SmartNormal}
	Doll     = Species{Name: "Doll", Points: 400, Speed: SpeedNormal, Smart: SmartLow}
	Minvo    = Species{Name: "Minvo", Points: 800, Speed: SpeedFast, Smart: SmartNormal}
	Kondoria = Species{Name: "Kondoria", Points: 1000, Speed: SpeedSlowest, Smart: SmartHigh, Wallpass: true}
	Ovapi    = Species{Name: "Ovapi", Points: 2000, Speed: SpeedSlow, Smart: SmartNormal, Wallpass: true}
	Pass     = Species{Name: "Pass", Points: 4000, Speed: SpeedFast, Smart: SmartHigh}
	Pontan   = Species{Name: "Pontan", Points: 8000, Speed: SpeedFast, Smart: SmartHigh, Wallpass: true}
)

var bestiary = []Species{Balloom, Oneal, Doll, Minvo, Kondoria, Ovapi, Pass, Pontan}

// AllSpecies returns every known species ordered by point value.
func AllSpecies() []Species {
	out := make([]Species, len(bestiary))
	copy(out, bestiary)
	return out
}

// LookupSpecies finds a species by name.
func LookupSpecies(name string) (Species, error) {
	for _, s := range bestiary {
		if s.Name == name {
			return s, nil
		}
	}
	return Species{}, fmt.Errorf("actor: unknown species %q", name)
}
