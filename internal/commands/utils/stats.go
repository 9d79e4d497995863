package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/StrikeTrackerBot/pkg/config"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createStatsCommand creates the /bot stats subcommand
func createStatsCommand() *discord.Command {
	return discord.NewCommand(
		"stats",
		"Show bot statistics",
		"bot",
		statsHandler,
	)
}

func statsHandler(ctx *discord.CommandContext) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	memberCount := 0
	for _, guild := range ctx.Session.State.Guilds {
		memberCount += guild.MemberCount
	}

	field := func(name, value string) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true}
	}

	embed := &discordgo.MessageEmbed{
		Title: "📊 Bot statistics",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			field("🤖 Bot version", config.Version),
			field("🐹 Go version", strings.TrimPrefix(runtime.Version(), "go")),
			field("📚 DiscordGo version", discordgo.VERSION),
			field("🖥 RAM", fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024)),
			field("⚙️ CPU", fmt.Sprintf("%d Goroutines / %d CPUs", runtime.NumGoroutine(), runtime.NumCPU())),
			field("⏱ Uptime", formatDuration(time.Since(ctx.Client.StartTime))),
			field("🏠 Guilds", fmt.Sprintf("%d", ctx.Client.GuildCount())),
			field("👥 Members", fmt.Sprintf("%d", memberCount)),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if ctx.Session.State.User != nil {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text:    "💫 - Developed by PancyStudios",
			IconURL: ctx.Session.State.User.AvatarURL(""),
		}
	}

	return ctx.ReplyEphemeralEmbed(embed)
}

// formatDuration formats a time.Duration into a human-readable string
func formatDuration(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d days", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hours", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", minutes))
	}
	if seconds > 0 {
		parts = append(parts, fmt.Sprintf("%d seconds", seconds))
	}

	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, ", ")
}
