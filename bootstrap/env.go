package bootstrap

import (
	"log"

	"github.com/spf13/viper"
)

type Env struct {
	AppEnv         string `mapstructure:"APP_ENV"`
	ServerAddress  string `mapstructure:"SERVER_ADDRESS"`
	ContextTimeout int    `mapstructure:"CONTEXT_TIMEOUT"`

	DBHost string `mapstructure:"DB_HOST"`
	DBPort string `mapstructure:"DB_PORT"`
	DBUser string `mapstructure:"DB_USER"`
	DBPass string `mapstructure:"DB_PASS"`
	DBName string `mapstructure:"DB_NAME"`

	// Provider credentials are all optional; absent ones degrade the
	// catalog clients to "no external data" rather than failing startup.
	DiscogsToken        string `mapstructure:"DISCOGS_TOKEN"`
	SpotifyClientID     string `mapstructure:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `mapstructure:"SPOTIFY_CLIENT_SECRET"`

	BackfillDelayMS int `mapstructure:"BACKFILL_DELAY_MS"`
}

func NewEnv() *Env {
	env := Env{}
	viper.SetConfigFile(".env")

	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal("Can't find the file .env : ", err)
	}

	err = viper.Unmarshal(&env)
	if err != nil {
		log.Fatal("Environment can't be loaded: ", err)
	}

	if env.ContextTimeout <= 0 {
		env.ContextTimeout = 10
	}
	if env.BackfillDelayMS <= 0 {
		env.BackfillDelayMS = 1200
	}

	if env.AppEnv == "development" {
		log.Println("The App is running in development env")
	}

	return &env
}
