package entities

// Document is the root persisted state, keyed by guild ID
type Document struct {
	Guilds map[string]*GuildState `json:"guilds"`
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{
		Guilds: make(map[string]*GuildState),
	}
}

// GuildState holds the hat for a single guild
type GuildState struct {
	Pool          []string          `json:"pool"`          // Undrawn names, insertion order
	PendingByUser map[string]string `json:"pendingByUser"` // UserID -> drawn name awaiting keep/redraw
}

// NewGuildState creates an empty guild state
func NewGuildState() *GuildState {
	return &GuildState{
		Pool:          make([]string, 0),
		PendingByUser: make(map[string]string),
	}
}

// Clone returns a deep copy of the guild state
func (g *GuildState) Clone() *GuildState {
	clone := &GuildState{
		Pool:          make([]string, len(g.Pool)),
		PendingByUser: make(map[string]string, len(g.PendingByUser)),
	}
	copy(clone.Pool, g.Pool)
	for userID, name := range g.PendingByUser {
		clone.PendingByUser[userID] = name
	}
	return clone
}

// TotalEntries returns the number of names still in play (pool plus pending)
func (g *GuildState) TotalEntries() int {
	return len(g.Pool) + len(g.PendingByUser)
}

// Clone returns a deep copy of the document
func (d *Document) Clone() *Document {
	clone := NewDocument()
	for guildID, state := range d.Guilds {
		if state == nil {
			continue
		}
		clone.Guilds[guildID] = state.Clone()
	}
	return clone
}

// Normalize fills in nil collections left behind by decoding
func (d *Document) Normalize() {
	if d.Guilds == nil {
		d.Guilds = make(map[string]*GuildState)
	}
	for guildID, state := range d.Guilds {
		if state == nil {
			d.Guilds[guildID] = NewGuildState()
			continue
		}
		if state.Pool == nil {
			state.Pool = make([]string, 0)
		}
		if state.PendingByUser == nil {
			state.PendingByUser = make(map[string]string)
		}
	}
}
