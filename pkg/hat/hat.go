// Package hat implements the name-in-a-hat draw rules for a single guild.
//
// An entry is either in the pool or pending for exactly one user. Drawing moves an
// entry from the pool to the user's pending slot, redrawing swaps it for a fresh pick,
// and keeping removes it from play for good.
package hat

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/fadedpez/hatbot/internal/types"
	"github.com/fadedpez/hatbot/pkg/entities"
)

// Picker selects an index uniformly from [0, n)
type Picker interface {
	Intn(n int) int
}

type defaultPicker struct{}

// Intn uses the process-wide source, which is safe for concurrent use
func (defaultPicker) Intn(n int) int {
	return rand.Intn(n)
}

// DefaultPicker is the picker used when none is supplied
var DefaultPicker Picker = defaultPicker{}

// Hat applies game operations to one guild's state
type Hat struct {
	state  *entities.GuildState
	picker Picker
}

// New wraps a guild state. A nil picker uses DefaultPicker.
func New(state *entities.GuildState, picker Picker) *Hat {
	if picker == nil {
		picker = DefaultPicker
	}
	if state.PendingByUser == nil {
		state.PendingByUser = make(map[string]string)
	}
	return &Hat{
		state:  state,
		picker: picker,
	}
}

// State returns the underlying guild state
func (h *Hat) State() *entities.GuildState {
	return h.state
}

// SplitNames splits a comma-separated list as typed into the set command
func SplitNames(raw string) []string {
	return strings.Split(raw, ",")
}

// SetPool replaces the pool and clears every pending draw
func (h *Hat) SetPool(names []string) int {
	pool := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			pool = append(pool, trimmed)
		}
	}

	h.state.Pool = pool
	h.state.PendingByUser = make(map[string]string)
	return len(pool)
}

// AddEntry appends a single name. Duplicates are allowed.
func (h *Hat) AddEntry(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", types.NewHatError(types.ErrInvalidInput, "Name can't be empty.")
	}

	h.state.Pool = append(h.state.Pool, trimmed)
	return trimmed, nil
}

// RemoveEntry removes the first pool entry equal to name and clears any pending
// draw holding that same value
func (h *Hat) RemoveEntry(name string) error {
	target := strings.TrimSpace(name)

	index := -1
	for i, entry := range h.state.Pool {
		if entry == target {
			index = i
			break
		}
	}
	if index == -1 {
		return types.NewHatError(types.ErrNotFound, fmt.Sprintf("**%s** wasn't found in the hat.", target))
	}

	h.state.Pool = append(h.state.Pool[:index], h.state.Pool[index+1:]...)

	for userID, pending := range h.state.PendingByUser {
		if pending == target {
			delete(h.state.PendingByUser, userID)
		}
	}
	return nil
}

// ListPool returns a copy of the pool and its size
func (h *Hat) ListPool() ([]string, int) {
	entries := make([]string, len(h.state.Pool))
	copy(entries, h.state.Pool)
	return entries, len(entries)
}

// Pending returns the user's pending draw, if any
func (h *Hat) Pending(userID string) (string, bool) {
	name, ok := h.state.PendingByUser[userID]
	return name, ok
}

// Draw picks a random entry from the pool and holds it for the user
func (h *Hat) Draw(userID string) (string, error) {
	if pending, ok := h.state.PendingByUser[userID]; ok {
		return "", types.NewHatError(types.ErrAlreadyPending, fmt.Sprintf("You already drew **%s**.", pending))
	}
	if len(h.state.Pool) == 0 {
		return "", types.NewHatError(types.ErrEmptyPool, "The hat is empty.")
	}

	pick := h.pick()
	h.state.PendingByUser[userID] = pick
	return pick, nil
}

// Redraw puts the user's pending entry back and draws again. The returned entry may
// be the same one, since it is eligible again.
func (h *Hat) Redraw(userID string) (old string, pick string, err error) {
	current, ok := h.state.PendingByUser[userID]
	if !ok {
		return "", "", errNoPendingDraw()
	}

	h.state.Pool = append(h.state.Pool, current)
	pick = h.pick()
	h.state.PendingByUser[userID] = pick
	return current, pick, nil
}

// Keep finalizes the user's pending draw. The entry stays out of the pool.
func (h *Hat) Keep(userID string) (string, error) {
	current, ok := h.state.PendingByUser[userID]
	if !ok {
		return "", errNoPendingDraw()
	}

	delete(h.state.PendingByUser, userID)
	return current, nil
}

// Reset empties the pool and clears all pending draws
func (h *Hat) Reset() {
	h.state.Pool = make([]string, 0)
	h.state.PendingByUser = make(map[string]string)
}

// pick removes and returns a uniformly chosen pool entry. The pool must not be empty.
func (h *Hat) pick() string {
	index := h.picker.Intn(len(h.state.Pool))
	pick := h.state.Pool[index]
	h.state.Pool = append(h.state.Pool[:index], h.state.Pool[index+1:]...)
	return pick
}

func errNoPendingDraw() error {
	return types.NewHatError(types.ErrNoPendingDraw, "You don't have a current draw. Use **/draw** first.")
}
