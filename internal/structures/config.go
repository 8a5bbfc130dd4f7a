package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

// StorageConfig selects the durable medium. Driver "none" runs the store on
// seed data without persisting anything.
type StorageConfig struct {
	Driver     string `yaml:"driver" validate:"required|in:file,sqlite,memory,none"`
	Path       string `yaml:"path"`
	Compress   bool   `yaml:"compress"`
	QuotaBytes int    `yaml:"quotaBytes" validate:"min:0"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type UsageConfig struct {
	MessagesPerChat int `yaml:"messagesPerChat" validate:"min:0"`
	RecentActivity  int `yaml:"recentActivity" validate:"min:0"`
	DefaultWindow   int `yaml:"defaultWindow" validate:"min:0"`
}

type ChatConfig struct {
	MinMessages    int     `yaml:"minMessages" validate:"min:0"`
	MaxMessages    int     `yaml:"maxMessages" validate:"min:0"`
	FavoriteChance float64 `yaml:"favoriteChance"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer"`
	Storage   StorageConfig `yaml:"storage"`
	Logger    LoggerConfig  `yaml:"logger"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
	Usage     UsageConfig   `yaml:"usage"`
	Chat      ChatConfig    `yaml:"chat"`
}

const (
	DefaultMessagesPerChat = 5
	DefaultRecentActivity  = 7
	DefaultWindow          = 7
	DefaultMinMessages     = 3
	DefaultMaxMessages     = 12
	DefaultFavoriteChance  = 0.2
)

// ApplyDefaults fills the usage and chat sections that were left at zero.
func (c *Config) ApplyDefaults() {
	if c.Usage.MessagesPerChat == 0 {
		c.Usage.MessagesPerChat = DefaultMessagesPerChat
	}
	if c.Usage.RecentActivity == 0 {
		c.Usage.RecentActivity = DefaultRecentActivity
	}
	if c.Usage.DefaultWindow == 0 {
		c.Usage.DefaultWindow = DefaultWindow
	}
	if c.Chat.MinMessages == 0 && c.Chat.MaxMessages == 0 {
		c.Chat.MinMessages = DefaultMinMessages
		c.Chat.MaxMessages = DefaultMaxMessages
	}
	if c.Chat.MaxMessages < c.Chat.MinMessages {
		c.Chat.MaxMessages = c.Chat.MinMessages
	}
	if c.Chat.FavoriteChance == 0 {
		c.Chat.FavoriteChance = DefaultFavoriteChance
	}
}
