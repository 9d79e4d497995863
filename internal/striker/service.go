package striker

import (
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/PancyStudios/StrikeTrackerBot/pkg/errors"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/store"
)

var channelIDPattern = regexp.MustCompile(`^\d{17,20}$`)

// ChannelSource is one step of the log channel lookup
type ChannelSource struct {
	Name    string
	Resolve func(guildID string) string
}

// EnvSource reads a channel id from an environment variable at lookup time
func EnvSource(name string) ChannelSource {
	return ChannelSource{
		Name: "env:" + name,
		Resolve: func(string) string {
			return strings.TrimSpace(os.Getenv(name))
		},
	}
}

// EventSink receives domain events; pkg/mqtt implements it
type EventSink interface {
	PublishEvent(topic string, payload interface{})
}

// Summary is one row of the chief overview
type Summary struct {
	Chief    string `json:"chief" csv:"chief"`
	Strikes  int    `json:"strikes" csv:"strikes"`
	Warnings int    `json:"warnings" csv:"warnings"`
	Total    int    `json:"total" csv:"total"`
}

// Service owns the striker documents
type Service struct {
	data    *store.Document[Document]
	config  *store.Document[Config]
	sources []ChannelSource
}

// NewService wires the striker documents of backend. The log channel is
// looked up in the guild config first, then in each env variable of envNames.
func NewService(backend store.Backend, envNames []string) *Service {
	s := &Service{
		data:   store.NewDocument(backend, store.StrikerData, NewDocument),
		config: store.NewDocument(backend, store.StrikerConfig, NewConfig),
	}

	s.sources = append(s.sources, ChannelSource{
		Name: "guild config",
		Resolve: func(guildID string) string {
			return s.config.Load()[guildID].StrikeLogChannelID
		},
	})
	for _, name := range envNames {
		s.sources = append(s.sources, EnvSource(name))
	}
	return s
}

// Sources returns the log channel lookup order
func (s *Service) Sources() []ChannelSource {
	return append([]ChannelSource(nil), s.sources...)
}

// Chief returns a chief by name, or an empty unsaved one
func (s *Service) Chief(name string) Chief {
	return s.data.Load().lookup(name)
}

// PagerChief resolves the chief key carried by a pager button, including the
// hashed form PagerID uses for keys too long for a custom id
func (s *Service) PagerChief(key string) Chief {
	doc := s.data.Load()
	if strings.HasPrefix(key, hashedKeyPrefix) {
		for k, c := range doc.Chiefs {
			if hashKey(k) == key {
				return doc.lookup(c.Name)
			}
		}
	}
	return doc.lookup(key)
}

// AddInfraction appends a strike or warning and saves the document
func (s *Service) AddInfraction(kind Kind, name, reason, issuerID string, at time.Time) (Chief, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Chief{}, apperrors.Validation("⚠️ Chief name cannot be empty.")
	}
	if utf8.RuneCountInString(name) > MaxChiefNameLength {
		return Chief{}, apperrors.Validation("⚠️ Chief name is limited to %d characters.", MaxChiefNameLength)
	}
	if _, ok := ParseKind(string(kind)); !ok {
		return Chief{}, apperrors.Validation("Unknown infraction type.")
	}

	var chief Chief
	err := s.data.Update(func(doc *Document) error {
		doc.normalize()
		chief = doc.lookup(name)
		ts := at.UnixMilli()
		switch kind {
		case KindStrike:
			chief.Strikes = append(chief.Strikes, Strike{TS: ts, Reason: reason, Issuer: issuerID})
		case KindWarning:
			chief.Warnings = append(chief.Warnings, Warning{TS: ts, Reason: reason, Issuer: issuerID, SentBy: issuerID})
		}
		doc.Chiefs[Key(chief.Name)] = chief
		return nil
	})
	if err != nil {
		return Chief{}, err
	}
	return chief, nil
}

// Summaries lists chiefs with at least one infraction, most infractions first
func (s *Service) Summaries() []Summary {
	doc := s.data.Load()
	rows := make([]Summary, 0, len(doc.Chiefs))
	for _, c := range doc.Chiefs {
		if c.Total() == 0 {
			continue
		}
		rows = append(rows, Summary{
			Chief:    c.Name,
			Strikes:  len(c.Strikes),
			Warnings: len(c.Warnings),
			Total:    c.Total(),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Chief < rows[j].Chief
	})
	return rows
}

// SetLogChannel stores the guild's strike log channel
func (s *Service) SetLogChannel(guildID, channelID string) error {
	return s.config.Update(func(cfg *Config) error {
		if *cfg == nil {
			*cfg = Config{}
		}
		(*cfg)[guildID] = GuildConfig{StrikeLogChannelID: channelID}
		return nil
	})
}

// LogChannel resolves the guild's strike log channel; the first source with
// a value wins and that value must look like a channel id.
func (s *Service) LogChannel(guildID string) (string, error) {
	for _, src := range s.sources {
		id := src.Resolve(guildID)
		if id == "" {
			continue
		}
		if !channelIDPattern.MatchString(id) {
			return "", apperrors.Configuration("⚠️ Strike log channel (%s) is not a valid channel id. Use `/strikechannel` to set it.", src.Name)
		}
		return id, nil
	}
	return "", apperrors.Configuration("⚠️ Strike log channel is not configured. Use `/strikechannel` to set it.")
}

// Launcher returns the recorded launcher message of a channel
func (s *Service) Launcher(channelID string) string {
	return s.data.Load().Launchers[channelID]
}

func (s *Service) setLauncher(channelID, messageID string) error {
	return s.data.Update(func(doc *Document) error {
		doc.normalize()
		doc.Launchers[channelID] = messageID
		return nil
	})
}
