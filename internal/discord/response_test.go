package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	discordmock "github.com/fadedpez/hatbot/internal/discord/mock"
	"github.com/fadedpez/hatbot/internal/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ResponseTestSuite struct {
	suite.Suite
	session *discordmock.SessionHandler
}

func TestResponseSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) SetupTest() {
	s.session = &discordmock.SessionHandler{}
	s.session.Test(s.T())
}

func (s *ResponseTestSuite) TestNewResponse() {
	resp := NewResponse("test content")

	s.NotNil(resp)
	s.Equal("test content", resp.Content)
	s.False(resp.Ephemeral)
}

func (s *ResponseTestSuite) TestNewEphemeralResponse() {
	resp := NewEphemeralResponse("test content")

	s.NotNil(resp)
	s.Equal("test content", resp.Content)
	s.True(resp.Ephemeral)
}

func (s *ResponseTestSuite) TestNewErrorResponse() {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Hat error",
			err:      types.NewHatError(types.ErrEmptyPool, "The hat is empty."),
			expected: "🎩 The hat is empty.",
		},
		{
			name:     "Permission denied",
			err:      types.NewHatError(types.ErrPermissionDenied, "You don't have permission to do that."),
			expected: "🚫 You don't have permission to do that.",
		},
		{
			name:     "Unknown code",
			err:      types.NewHatError(types.ErrorCode("SOMETHING_ELSE"), "odd"),
			expected: "❌ odd",
		},
		{
			name:     "Regular error",
			err:      errors.New("boom"),
			expected: "❌ Something went wrong. Please try again.",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp := NewErrorResponse(tc.err)

			s.Equal(tc.expected, resp.Content)
			s.True(resp.Ephemeral, "error responses are always ephemeral")
		})
	}
}

func (s *ResponseTestSuite) TestSendResponse() {
	// Setup
	interaction := &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{ID: "interaction-1"},
	}
	s.session.On("InteractionRespond", interaction.Interaction, mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Type == discordgo.InteractionResponseChannelMessageWithSource &&
			r.Data.Content == "hello" &&
			r.Data.Flags == discordgo.MessageFlagsEphemeral
	})).Return(nil)

	// Execute
	err := SendResponse(s.session, interaction, NewEphemeralResponse("hello"))

	// Assert
	s.NoError(err)
	s.session.AssertExpectations(s.T())
}

func (s *ResponseTestSuite) TestSendErrorResponse() {
	interaction := &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{ID: "interaction-2"},
	}
	s.session.On("InteractionRespond", interaction.Interaction, mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Data.Content == "🔍 **Bob** wasn't found in the hat." && r.Data.Flags == discordgo.MessageFlagsEphemeral
	})).Return(nil)

	err := SendErrorResponse(s.session, interaction, types.NewHatError(types.ErrNotFound, "**Bob** wasn't found in the hat."))

	s.NoError(err)
	s.session.AssertExpectations(s.T())
}

func (s *ResponseTestSuite) TestGetFlags() {
	s.Equal(discordgo.MessageFlagsEphemeral, getFlags(true))
	s.Equal(discordgo.MessageFlags(0), getFlags(false))
}
