package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Game       GameConfig       `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
	// Token authenticates websocket clients. Environment only
	// (WORDBOMB_TOKEN), never read from the config file.
	Token string `mapstructure:"token"`
}

type DictionaryConfig struct {
	Path string `mapstructure:"path"`
}

type GameConfig struct {
	// LobbyTimeout is how long a game may sit in the lobby before it is
	// reclaimed (minutes).
	LobbyTimeout int `mapstructure:"lobby_timeout"`
}

// LobbyTimeoutDuration returns the lobby expiry as a duration.
func (c *GameConfig) LobbyTimeoutDuration() time.Duration {
	return time.Duration(c.LobbyTimeout) * time.Minute
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("server.metrics_address", ":9090")
	viper.SetDefault("dictionary.path", "words.txt")
	viper.SetDefault("game.lobby_timeout", 10)

	viper.SetEnvPrefix("wordbomb")
	viper.AutomaticEnv()
	_ = viper.BindEnv("server.token", "WORDBOMB_TOKEN")

	err = viper.ReadInConfig()
	if err != nil {
		// A missing file is fine, defaults and env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}
