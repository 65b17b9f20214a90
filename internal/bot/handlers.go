package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/hatbot/internal/discord"
	"github.com/fadedpez/hatbot/internal/types"
	"github.com/fadedpez/hatbot/pkg/entities"
	"github.com/fadedpez/hatbot/pkg/hat"
	"github.com/google/uuid"
)

// outcome is what a successful command delivers.
// When DM is set it is sent first, and Fallback replaces Reply if the DM fails.
type outcome struct {
	Reply    string
	DM       string
	Fallback string
	Announce string
}

// commandRequest carries one invocation through the handlers
type commandRequest struct {
	id          string
	interaction *discordgo.InteractionCreate
	data        discordgo.ApplicationCommandInteractionData
	caller      CallerContext
}

// handleSlashCommand handles all slash commands
func (b *Bot) handleSlashCommand(i *discordgo.InteractionCreate) {
	b.shutdownWg.Add(1)
	defer b.shutdownWg.Done()

	req := &commandRequest{
		id:          uuid.NewString(),
		interaction: i,
		data:        i.ApplicationCommandData(),
		caller:      CallerFromInteraction(i),
	}
	path := commandPath(req.data)
	b.logger.Info("[%s] %s (%s) ran /%s", req.id, req.caller.Username, req.caller.UserID, path)

	if i.GuildID == "" {
		b.deliverer.Reply(req.id, i, discord.NewEphemeralResponse("Use these commands in a server."))
		return
	}

	if elevatedCommands[path] && ResolveTier(req.caller, b.policy) != TierElevated {
		b.logger.Info("[%s] denied /%s for standard caller %s", req.id, path, req.caller.UserID)
		b.replyError(req, permissionDenied(path))
		return
	}

	ctx := context.Background()
	var (
		result *outcome
		err    error
	)
	switch path {
	case CommandHat + " " + SubcommandSet:
		result, err = b.handleSet(ctx, req)
	case CommandHat + " " + SubcommandAdd:
		result, err = b.handleAdd(ctx, req)
	case CommandHat + " " + SubcommandRemove:
		result, err = b.handleRemove(ctx, req)
	case CommandHat + " " + SubcommandList:
		result, err = b.handleList(ctx, req)
	case CommandDraw:
		result, err = b.handleDraw(ctx, req)
	case CommandRedraw:
		result, err = b.handleRedraw(ctx, req)
	case CommandKeep:
		result, err = b.handleKeep(ctx, req)
	case CommandReset:
		result, err = b.handleReset(ctx, req)
	default:
		err = types.NewHatError(types.ErrInvalidCommand, fmt.Sprintf("Unknown command: /%s", path))
	}

	if err != nil {
		b.replyError(req, err)
		return
	}
	b.deliver(req, result)
}

// deliver sends a successful outcome. Delivery failures are logged by the
// Deliverer and never change the stored state.
func (b *Bot) deliver(req *commandRequest, result *outcome) {
	reply := result.Reply
	if result.DM != "" {
		if err := b.deliverer.DirectMessage(req.id, req.caller.UserID, result.DM); err != nil {
			reply = result.Fallback
		}
	}

	b.deliverer.Reply(req.id, req.interaction, discord.NewEphemeralResponse(reply))

	if result.Announce != "" {
		b.deliverer.Announce(req.id, req.interaction.ChannelID, result.Announce)
	}
}

// replyError answers the interaction with a private error message
func (b *Bot) replyError(req *commandRequest, err error) {
	if types.IsHatError(err, types.ErrStorage) || !isHatError(err) {
		b.logger.LogError(err)
	} else {
		b.logger.Debug("[%s] %v", req.id, err)
	}

	resp := discord.NewErrorResponse(err)
	if types.IsHatError(err, types.ErrAlreadyPending) {
		resp.Content += "\nUse **/keep** or **/redraw** in this channel."
	}
	b.deliverer.Reply(req.id, req.interaction, resp)
}

func (b *Bot) handleSet(ctx context.Context, req *commandRequest) (*outcome, error) {
	names := hat.SplitNames(stringOption(req.data, "names"))

	var count int
	err := b.transactor.Update(ctx, req.interaction.GuildID, func(state *entities.GuildState) error {
		count = hat.New(state, b.picker).SetPool(names)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &outcome{
		Reply:    fmt.Sprintf("✅ Hat set with **%d** entries.", count),
		Announce: fmt.Sprintf("🪄 %s reset the hat with **%d** entries.", mention(req.caller), count),
	}, nil
}

func (b *Bot) handleAdd(ctx context.Context, req *commandRequest) (*outcome, error) {
	var added string
	err := b.transactor.Update(ctx, req.interaction.GuildID, func(state *entities.GuildState) error {
		var err error
		added, err = hat.New(state, b.picker).AddEntry(stringOption(req.data, "name"))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &outcome{
		Reply:    fmt.Sprintf("✅ Added **%s** to the hat.", added),
		Announce: fmt.Sprintf("➕ %s added an entry to the hat.", mention(req.caller)),
	}, nil
}

func (b *Bot) handleRemove(ctx context.Context, req *commandRequest) (*outcome, error) {
	name := strings.TrimSpace(stringOption(req.data, "name"))
	err := b.transactor.Update(ctx, req.interaction.GuildID, func(state *entities.GuildState) error {
		return hat.New(state, b.picker).RemoveEntry(name)
	})
	if err != nil {
		return nil, err
	}

	return &outcome{
		Reply:    fmt.Sprintf("✅ Removed one instance of **%s**.", name),
		Announce: fmt.Sprintf("➖ %s removed an entry from the hat.", mention(req.caller)),
	}, nil
}

func (b *Bot) handleList(ctx context.Context, req *commandRequest) (*outcome, error) {
	var (
		entries []string
		count   int
	)
	err := b.transactor.View(ctx, req.interaction.GuildID, func(state *entities.GuildState) error {
		entries, count = hat.New(state, b.picker).ListPool()
		return nil
	})
	if err != nil {
		return nil, err
	}

	list := "(empty)"
	if count > 0 {
		list = strings.Join(entries, ", ")
	}
	return &outcome{
		Reply: fmt.Sprintf("🎩 Hat (%d entries): %s", count, list),
	}, nil
}

func (b *Bot) handleDraw(ctx context.Context, req *commandRequest) (*outcome, error) {
	var pick string
	err := b.transactor.Update(ctx, req.interaction.GuildID, func(state *entities.GuildState) error {
		var err error
		pick, err = hat.New(state, b.picker).Draw(req.caller.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &outcome{
		DM:       fmt.Sprintf("🎩 Your draw: **%s**\nUse **/keep** to lock it in, or **/redraw** to swap.\n(Use these commands back in the server, not in DMs.)", pick),
		Reply:    "🎩 Check your DMs, then use **/keep** or **/redraw** here in this channel.",
		Fallback: fmt.Sprintf("🎩 Your draw: **%s**\nUse **/keep** or **/redraw** here in this channel.\n(Your DMs are closed, so I couldn't message you.)", pick),
		Announce: fmt.Sprintf("🎩 %s drew from the hat.", mention(req.caller)),
	}, nil
}

func (b *Bot) handleRedraw(ctx context.Context, req *commandRequest) (*outcome, error) {
	var pick string
	err := b.transactor.Update(ctx, req.interaction.GuildID, func(state *entities.GuildState) error {
		var err error
		_, pick, err = hat.New(state, b.picker).Redraw(req.caller.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &outcome{
		DM:       fmt.Sprintf("🔄 Redraw! New draw: **%s**\nUse **/keep** to lock it in, or **/redraw** again.\n(Use these commands back in the server, not in DMs.)", pick),
		Reply:    "🔄 Check your DMs, then use **/keep** or **/redraw** here in this channel.",
		Fallback: fmt.Sprintf("🔄 Your new draw: **%s**\nUse **/keep** or **/redraw** here in this channel.\n(Your DMs are closed, so I couldn't message you.)", pick),
		Announce: fmt.Sprintf("🔄 %s redrew from the hat.", mention(req.caller)),
	}, nil
}

func (b *Bot) handleKeep(ctx context.Context, req *commandRequest) (*outcome, error) {
	var kept string
	err := b.transactor.Update(ctx, req.interaction.GuildID, func(state *entities.GuildState) error {
		var err error
		kept, err = hat.New(state, b.picker).Keep(req.caller.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &outcome{
		DM:       fmt.Sprintf("✅ Kept: **%s**\nThat entry is now permanently removed from the hat.", kept),
		Reply:    "✅ Draw kept. Check your DMs for the details.",
		Fallback: fmt.Sprintf("✅ Kept: **%s**\n(Your DMs are closed, so I couldn't message you.)", kept),
		Announce: fmt.Sprintf("✅ %s kept their draw.", mention(req.caller)),
	}, nil
}

func (b *Bot) handleReset(ctx context.Context, req *commandRequest) (*outcome, error) {
	err := b.transactor.Update(ctx, req.interaction.GuildID, func(state *entities.GuildState) error {
		hat.New(state, b.picker).Reset()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &outcome{
		Reply:    "🧹 Reset complete: hat cleared and pending draws cleared.",
		Announce: fmt.Sprintf("🧹 %s reset the hat and cleared all pending draws.", mention(req.caller)),
	}, nil
}

func permissionDenied(path string) error {
	if path == CommandReset {
		return types.NewHatError(types.ErrPermissionDenied,
			"Only hat admins can reset the hat.")
	}
	return types.NewHatError(types.ErrPermissionDenied,
		"Only hat admins can use that. You *can* use **/hat add** 🙂")
}

func mention(caller CallerContext) string {
	return "<@" + caller.UserID + ">"
}

func isHatError(err error) bool {
	var hatErr *types.HatError
	return types.As(err, &hatErr)
}
