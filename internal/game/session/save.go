package session

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/ravenstone/murpg/internal/game/entity"
	"github.com/ravenstone/murpg/internal/storage"
)

// saveVersion tags the save record format.
const saveVersion = "1.0"

// saveRecord is the persisted session snapshot.
type saveRecord struct {
	Player    *entity.Player    `json:"player"`
	Inventory *entity.Inventory `json:"inventory"`
	GameTime  float64           `json:"gameTime"`
	LastSave  int64             `json:"lastSave"`
	Version   string            `json:"version"`
}

// SaveGame snapshots the player, inventory, and game time. Failures are
// reported to the chat log and the caller, never propagated as errors.
// Silent saves skip the success notification to avoid autosave spam.
func (g *GameState) SaveGame(silent bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saveLocked(silent)
}

func (g *GameState) saveLocked(silent bool) bool {
	record := saveRecord{
		Player:    g.player,
		Inventory: g.inventory,
		GameTime:  g.gameTime,
		LastSave:  g.clk.Now().UnixMilli(),
		Version:   saveVersion,
	}

	data, err := json.Marshal(record)
	if err == nil {
		err = g.store.Put(storage.KeyGameSave, data)
	}
	if err != nil {
		g.logger.Error("saving game", zap.Error(err))
		if !silent {
			g.addChatMessage("Failed to save game!", "system")
		}
		return false
	}

	g.lastSave = g.clk.Now()
	if !silent {
		g.addChatMessage("Game saved successfully.", "system")
	}
	return true
}

// LoadGame restores the persisted snapshot. A missing or corrupt record is
// a recoverable failure: the in-memory state stays authoritative and the
// outcome is reported via chat.
func (g *GameState) LoadGame() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.restoreSave() {
		return false
	}
	g.rebindEngine()
	g.addChatMessage("Game loaded successfully.", "system")
	return true
}

// restoreSave reads the save record into the session, reporting whether a
// usable record existed. Runs during construction and LoadGame; the chat
// messages it emits surface load problems either way.
func (g *GameState) restoreSave() bool {
	data, found, err := g.store.Get(storage.KeyGameSave)
	if err != nil {
		g.logger.Error("reading save record", zap.Error(err))
		g.addChatMessage("Failed to load game!", "system")
		return false
	}
	if !found {
		g.addChatMessage("No save game found!", "system")
		return false
	}

	var record saveRecord
	if err := json.Unmarshal(data, &record); err != nil || record.Player == nil {
		g.logger.Warn("corrupt save record", zap.Error(err))
		g.addChatMessage("Corrupted save game! Starting fresh.", "system")
		return false
	}

	record.Player.Normalize()
	g.player = record.Player
	if record.Inventory != nil {
		record.Inventory.Normalize()
		g.inventory = record.Inventory
	}
	g.gameTime = record.GameTime
	entity.DeriveStats(g.player)
	return true
}

// rebindEngine points the combat engine at the aggregates a restore
// replaced.
func (g *GameState) rebindEngine() {
	if g.engine == nil {
		return
	}
	g.engine.Player = g.player
	g.engine.Inventory = g.inventory
}
