package entity

// Pool is a current/max pair for HP, MP, and XP.
type Pool struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Stats holds the player's base attributes before equipment bonuses.
type Stats struct {
	Strength    int     `json:"strength"`
	Agility     int     `json:"agility"`
	Vitality    int     `json:"vitality"`
	Energy      int     `json:"energy"`
	Accuracy    int     `json:"accuracy"`
	Critical    int     `json:"critical"`
	AttackSpeed float64 `json:"attackSpeed"`
	MoveSpeed   float64 `json:"moveSpeed"`
}

// Position is a world coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Player is the singleton player record for a session.
//
// AutoTarget is a weak reference to a monster instance by id; it never owns
// the monster and is not persisted.
type Player struct {
	Level         int       `json:"level"`
	Class         string    `json:"class"`
	HP            Pool      `json:"hp"`
	MP            Pool      `json:"mp"`
	XP            Pool      `json:"xp"`
	Stats         Stats     `json:"stats"`
	Equipment     Equipment `json:"equipment"`
	Position      Position  `json:"position"`
	LearnedSkills []int     `json:"learnedSkills"`
	Image         string    `json:"image,omitempty"`

	AutoTarget string `json:"-"`
}

// NewDefaultPlayer creates a fresh level-1 player of the given class with
// the standard starting attributes.
func NewDefaultPlayer(class string) *Player {
	return &Player{
		Level: 1,
		Class: class,
		HP:    Pool{Current: 50, Max: 50},
		MP:    Pool{Current: 20, Max: 20},
		XP:    Pool{Current: 0, Max: 100},
		Stats: Stats{
			Strength:    20,
			Agility:     15,
			Vitality:    25,
			Energy:      10,
			Accuracy:    85,
			Critical:    5,
			AttackSpeed: 1.2,
			MoveSpeed:   100,
		},
		Equipment:     NewEquipment(),
		Position:      Position{X: 400, Y: 300},
		LearnedSkills: []int{1, 2},
	}
}

// MoveTo sets the player's world position.
func (p *Player) MoveTo(x, y float64) {
	p.Position.X = x
	p.Position.Y = y
}

// Normalize repairs state after deserializing external data: missing
// equipment slots are created empty so every paperdoll slot is addressable.
func (p *Player) Normalize() {
	if p.Equipment == nil {
		p.Equipment = NewEquipment()
	} else {
		for _, s := range Slots {
			if _, ok := p.Equipment[s]; !ok {
				p.Equipment[s] = nil
			}
		}
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.XP.Max < 1 {
		p.XP.Max = 100
	}
}
