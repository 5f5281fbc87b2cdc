package discord

import (
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// MockSession is an in-memory Session that tracks member roles.
// It is safe for concurrent use.
type MockSession struct {
	mu sync.Mutex

	// Members maps Discord user id to role ids.
	Members map[string][]string
	Status  Status

	GuildMemberFunc             func(guildID, userID string) (*discordgo.Member, error)
	GuildMemberRoleAddFunc      func(guildID, userID, roleID string) error
	ChannelMessageSendEmbedFunc func(channelID string, embed *discordgo.MessageEmbed) error

	RoleAddCalls    []RoleCall
	RoleRemoveCalls []RoleCall
	EmbedCalls      []EmbedCall
}

// RoleCall holds the arguments of a role add or remove.
type RoleCall struct {
	GuildID string
	UserID  string
	RoleID  string
}

// EmbedCall holds the arguments of ChannelMessageSendEmbed.
type EmbedCall struct {
	ChannelID string
	Embed     *discordgo.MessageEmbed
}

// ErrUnknownMember is returned for members the mock does not know.
var ErrUnknownMember = errors.New("unknown member")

var _ Session = (*MockSession)(nil)

func NewMockSession() *MockSession {
	return &MockSession{Members: map[string][]string{}}
}

func (m *MockSession) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GuildMemberFunc != nil {
		return m.GuildMemberFunc(guildID, userID)
	}
	roles, ok := m.Members[userID]
	if !ok {
		return nil, ErrUnknownMember
	}
	return &discordgo.Member{GuildID: guildID, User: &discordgo.User{ID: userID}, Roles: append([]string(nil), roles...)}, nil
}

func (m *MockSession) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RoleAddCalls = append(m.RoleAddCalls, RoleCall{guildID, userID, roleID})
	if m.GuildMemberRoleAddFunc != nil {
		if err := m.GuildMemberRoleAddFunc(guildID, userID, roleID); err != nil {
			return err
		}
	}
	m.Members[userID] = append(m.Members[userID], roleID)
	return nil
}

func (m *MockSession) GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RoleRemoveCalls = append(m.RoleRemoveCalls, RoleCall{guildID, userID, roleID})
	kept := m.Members[userID][:0]
	for _, r := range m.Members[userID] {
		if r != roleID {
			kept = append(kept, r)
		}
	}
	m.Members[userID] = kept
	return nil
}

func (m *MockSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmbedCalls = append(m.EmbedCalls, EmbedCall{channelID, embed})
	if m.ChannelMessageSendEmbedFunc != nil {
		if err := m.ChannelMessageSendEmbedFunc(channelID, embed); err != nil {
			return nil, err
		}
	}
	return &discordgo.Message{ChannelID: channelID, Embeds: []*discordgo.MessageEmbed{embed}}, nil
}

func (m *MockSession) Snapshot() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Status
}
