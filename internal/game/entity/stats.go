package entity

import (
	"math"

	"github.com/ravenstone/murpg/internal/game/rng"
)

// Derived holds the combat-relevant values computed from base stats plus
// equipped item bonuses.
type Derived struct {
	DamageMin   int
	DamageMax   int
	Defense     int
	Accuracy    int
	Critical    float64
	HPMax       int
	MPMax       int
	AttackSpeed float64
	MoveSpeed   float64
}

// Damage returns the damage span as a Range.
func (d Derived) Damage() rng.Range {
	return rng.Range{Min: d.DamageMin, Max: d.DamageMax}
}

// DeriveStats computes the player's derived stats from base attributes and
// every equipped item, then clamps current HP/MP down to the new maxima.
//
// The clamp is a deliberate side effect: any caller that changes stats or
// equipment must invoke DeriveStats before relying on the new maxima.
func DeriveStats(p *Player) Derived {
	str := float64(p.Stats.Strength)
	agi := float64(p.Stats.Agility)
	vit := float64(p.Stats.Vitality)
	ene := float64(p.Stats.Energy)

	damageMin := math.Floor(str*0.5 + agi*0.2)
	damageMax := math.Floor(str*0.7 + agi*0.3)
	defense := math.Floor(vit*0.5 + agi*0.2)
	accuracy := 85 + agi*0.1
	critical := 5 + agi*0.05

	for _, item := range p.Equipment {
		if item == nil {
			continue
		}
		st := item.Stats
		if st.Damage != "" {
			if r, err := rng.ParseRange(st.Damage); err == nil {
				damageMin += float64(r.Min)
				damageMax += float64(r.Max)
			}
		}
		defense += float64(st.Defense)
		accuracy += float64(st.Accuracy)
		critical += float64(st.Critical)
		if st.Strength != 0 {
			damageMin += float64(st.Strength) * 0.5
			damageMax += float64(st.Strength) * 0.7
		}
		if st.Agility != 0 {
			accuracy += float64(st.Agility) * 0.1
			critical += float64(st.Agility) * 0.05
		}
		if st.Vitality != 0 {
			defense += float64(st.Vitality) * 0.5
		}
	}

	hpMax := 50 + int(vit)*2
	mpMax := 20 + int(ene)*3

	p.HP.Max = hpMax
	p.MP.Max = mpMax
	if p.HP.Current > hpMax {
		p.HP.Current = hpMax
	}
	if p.MP.Current > mpMax {
		p.MP.Current = mpMax
	}

	return Derived{
		DamageMin:   int(damageMin),
		DamageMax:   int(damageMax),
		Defense:     int(defense),
		Accuracy:    int(math.Min(95, math.Floor(accuracy))),
		Critical:    math.Min(50, critical),
		HPMax:       hpMax,
		MPMax:       mpMax,
		AttackSpeed: p.Stats.AttackSpeed,
		MoveSpeed:   p.Stats.MoveSpeed,
	}
}
