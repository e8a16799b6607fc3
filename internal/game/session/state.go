// Package session owns the live game aggregate: player, inventory, monster
// population, chat log, elapsed game time, and the combat engine, together
// with the per-frame update contract and save/load lifecycle.
//
// All exported methods serialize on one mutex. The update loop and input
// handlers may therefore run on different goroutines.
package session

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ravenstone/murpg/internal/config"
	"github.com/ravenstone/murpg/internal/game/clock"
	"github.com/ravenstone/murpg/internal/game/combat"
	"github.com/ravenstone/murpg/internal/game/content"
	"github.com/ravenstone/murpg/internal/game/entity"
	"github.com/ravenstone/murpg/internal/game/monster"
	"github.com/ravenstone/murpg/internal/game/rng"
	"github.com/ravenstone/murpg/internal/scripting"
	"github.com/ravenstone/murpg/internal/storage"
)

// GameState is the session aggregate. Construct with New; the zero value is
// not usable.
type GameState struct {
	mu sync.Mutex

	logger  *zap.Logger
	cfg     config.GameConfig
	store   storage.Store
	content *content.Store
	clk     clock.Clock
	rng     rng.Source

	player    *entity.Player
	inventory *entity.Inventory
	monsters  *monster.Population
	engine    *combat.Engine

	chat       []ChatMessage
	chatConfig ChatConfig
	notifier   Notifier

	gameTime float64
	lastSave time.Time
}

// Option customizes New.
type Option func(*GameState)

// WithNotifier attaches an outbound chat/notification sink. The sink is
// fire-and-forget; session behavior never depends on it.
func WithNotifier(n Notifier) Option {
	return func(g *GameState) { g.notifier = n }
}

// WithClock substitutes the wall clock, for tests.
func WithClock(clk clock.Clock) Option {
	return func(g *GameState) { g.clk = clk }
}

// WithRNG substitutes the random source, for tests.
func WithRNG(src rng.Source) Option {
	return func(g *GameState) { g.rng = src }
}

// New builds a session against the given stores. A persisted save record is
// restored when present; otherwise a fresh default player is created with
// the class starting items auto-equipped and the initial monster population
// spawned.
//
// Precondition: logger, store, and db must be non-nil.
func New(logger *zap.Logger, cfg config.GameConfig, store storage.Store, db *content.Store, opts ...Option) *GameState {
	g := &GameState{
		logger:     logger,
		cfg:        cfg,
		store:      store,
		content:    db,
		clk:        clock.System{},
		rng:        rng.NewSource(cfg.RandomSeed),
		inventory:  entity.NewInventory(),
		monsters:   monster.NewPopulation(),
		chatConfig: DefaultChatConfig(),
	}
	for _, opt := range opts {
		opt(g)
	}

	fresh := !g.restoreSave()
	if fresh {
		g.player = entity.NewDefaultPlayer("Dark Knight")
		g.initializeStartingItems()
	}
	g.lastSave = g.clk.Now()

	g.engine = &combat.Engine{
		Player:    g.player,
		Inventory: g.inventory,
		Monsters:  g.monsters,
		Content:   db,
		RNG:       g.rng,
		Scripts:   scripting.NewRunner(0, logger),
		Log:       g.addChatMessage,
	}

	// Monsters are never persisted, so every startup repopulates the world.
	if g.monsters.Len() == 0 {
		g.spawnInitialMonsters()
	}

	logger.Info("session initialized",
		zap.Bool("fresh", fresh),
		zap.Int("player_level", g.player.Level),
		zap.Int("monsters", g.monsters.Len()),
	)
	return g
}

// initializeStartingItems fills the first inventory slots from the player
// class's starting item list and auto-equips what fits in an empty slot.
// Rings prefer the first ring slot, spilling to the second.
func (g *GameState) initializeStartingItems() {
	var ids []int
	if class, ok := g.content.ClassByName(g.player.Class); ok && len(class.StartingItems) > 0 {
		ids = class.StartingItems
	} else {
		ids = []int{1, 2, 4, 5}
	}

	for _, id := range ids {
		tmpl, ok := g.content.ItemByID(id)
		if !ok {
			continue
		}
		g.inventory.Add(entity.NewItemInstance(tmpl))
	}
	g.autoEquipStartingItems()
}

func (g *GameState) autoEquipStartingItems() {
	for index, item := range g.inventory.Items {
		if item == nil || !item.Equippable() {
			continue
		}
		slot, ok := g.player.Equipment.PreferredSlot(item.Type)
		if !ok || g.player.Equipment[slot] != nil {
			continue
		}
		if _, swapped := g.player.Equipment.Swap(slot, item); swapped {
			g.inventory.RemoveAt(index)
		}
	}
	entity.DeriveStats(g.player)
}

// spawnInitialMonsters scatters the configured number of monsters at
// uniform random world positions, each a uniform pick among the monster
// templates.
func (g *GameState) spawnInitialMonsters() {
	templates := g.content.Monsters()
	if len(templates) == 0 {
		return
	}
	for i := 0; i < g.cfg.InitialMonsters; i++ {
		tmpl := templates[g.rng.Intn(len(templates))]
		x := g.rng.Float64() * g.cfg.WorldWidth
		y := g.rng.Float64() * g.cfg.WorldHeight
		g.monsters.Add(monster.Spawn(tmpl, x, y))
	}
}

// Update is the once-per-frame entry point. It advances game time, runs
// monster AI, fires due spawn events, and autosaves silently when more
// than the configured interval has passed since the last save.
//
// Precondition: deltaTime is the elapsed frame time in seconds, >= 0.
func (g *GameState) Update(deltaTime float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.gameTime += deltaTime

	g.monsters.Advance(g.player.Position.X, g.player.Position.Y, g.clk, g.engine.TakeDamage)

	// Events spawn after AI so new arrivals stand on the ring until the
	// next tick.
	g.runDueEvents()

	if g.clk.Now().Sub(g.lastSave) > g.cfg.AutosaveInterval {
		g.saveLocked(true)
	}
}

// GameTime returns elapsed in-game seconds.
func (g *GameState) GameTime() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gameTime
}

// Player returns the live player record. The renderer treats it as
// read-only; mutation goes through the input methods.
func (g *GameState) Player() *entity.Player {
	return g.player
}

// Inventory returns the live inventory.
func (g *GameState) Inventory() *entity.Inventory {
	return g.inventory
}

// Monsters returns a snapshot of the live monster instances.
func (g *GameState) Monsters() []*monster.Instance {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.monsters.All()
}

// Attack resolves a basic attack against the monster with the given
// instance id. Unknown ids are a no-op.
func (g *GameState) Attack(monsterID string) combat.AttackResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.monsters.ByID(monsterID)
	if !ok {
		return combat.AttackResult{}
	}
	g.player.AutoTarget = monsterID
	return g.engine.AttackMonster(m)
}

// UseSkill casts the hotbar skill in slotIndex at the monster with the
// given id, or at the auto-target when monsterID is empty.
func (g *GameState) UseSkill(slotIndex int, monsterID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	var target *monster.Instance
	if monsterID != "" {
		target, _ = g.monsters.ByID(monsterID)
	}
	return g.engine.UseSkill(slotIndex, target)
}

// MoveTo sets the player's position, clamped to world bounds.
func (g *GameState) MoveTo(x, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	x = math.Max(0, math.Min(x, g.cfg.WorldWidth))
	y = math.Max(0, math.Min(y, g.cfg.WorldHeight))
	g.player.MoveTo(x, y)
}

// Equip moves the item at the given inventory index into slot. The
// displaced item, if any, lands in the vacated inventory slot.
func (g *GameState) Equip(index int, slot entity.Slot) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	item := g.inventory.At(index)
	if item == nil || !entity.CanEquip(item, slot) {
		return false
	}
	prev, ok := g.player.Equipment.Swap(slot, item)
	if !ok {
		return false
	}
	g.inventory.RemoveAt(index)
	if prev != nil {
		g.inventory.Set(index, prev)
	}
	entity.DeriveStats(g.player)
	g.addChatMessage("Equipped "+item.Name+"!", "equip")
	return true
}

// Unequip moves the item in slot to the first free inventory slot. A full
// inventory fails the operation and leaves the item equipped.
func (g *GameState) Unequip(slot entity.Slot) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	item := g.player.Equipment[slot]
	if item == nil {
		return false
	}
	if g.inventory.Full() {
		g.addChatMessage("Inventory is full!", "system")
		return false
	}
	g.player.Equipment.Unequip(slot)
	g.inventory.Add(item)
	entity.DeriveStats(g.player)
	g.addChatMessage("Unequipped "+item.Name+"!", "system")
	return true
}

// MoveItem moves or swaps inventory slots.
func (g *GameState) MoveItem(src, dst int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inventory.MoveOrSwap(src, dst)
}

// UseItem consumes the consumable at the given inventory index.
func (g *GameState) UseItem(index int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.UseItem(index)
}
