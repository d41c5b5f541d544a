package actor

import "fmt"

// Upgrade is a collectable modifier. Owning it several times stacks its effect.
type Upgrade int

const (
	Bombs Upgrade = iota + 1
	Flames
	Speed
	Wallpass
	Detonator
	Bombpass
	Flamepass
	Mystery
)

var upgradeNames = map[Upgrade]string{
	Bombs:     "Bombs",
	Flames:    "Flames",
	Speed:     "Speed",
	Wallpass:  "Wallpass",
	Detonator: "Detonator",
	Bombpass:  "Bombpass",
	Flamepass: "Flamepass",
	Mystery:   "Mystery",
}

func (u Upgrade) String() string {
	if name, ok := upgradeNames[u]; ok {
		return name
	}
	return fmt.Sprintf("Upgrade(%d)", int(u))
}

// ParseUpgrade looks an upgrade up by its display name.
func ParseUpgrade(name string) (Upgrade, error) {
	for u, n := range upgradeNames {
		if n == name {
			return u, nil
		}
	}
	return 0, fmt.Errorf("actor: unknown upgrade %q", name)
}
