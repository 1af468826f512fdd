package config

import "time"

type Config struct {
	API         APIConfig         `envPrefix:"TIENDANUBE_"`
	Origin      StoreConfig       `envPrefix:"ORIGIN_"`
	Destination StoreConfig       `envPrefix:"DESTINATION_"`
	Sync        SyncConfig        `envPrefix:"SYNC_"`
	Mysql       MysqlConfig       `envPrefix:"MYSQL_"`
	TelegramBot TelegramBotConfig `envPrefix:"TELEGRAM_"`
}

type APIConfig struct {
	BaseURL    string        `env:"BASE_URL" envDefault:"https://api.tiendanube.com/v1"`
	UserAgent  string        `env:"USER_AGENT" envDefault:"Clonador Chesmin a Jacula (jaculashoppingflores@gmail.com)"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"60s"`
	MaxRetries int           `env:"MAX_RETRIES" envDefault:"8" validate:"gte=1"`
	PageSize   int           `env:"PAGE_SIZE" envDefault:"200" validate:"gt=0,lte=200"`
}

type StoreConfig struct {
	StoreID     int64  `env:"STORE_ID,required" validate:"gt=0"`
	AccessToken string `env:"ACCESS_TOKEN,required" validate:"required"`
}

type SyncConfig struct {
	PriceFactor       float64       `env:"PRICE_FACTOR" envDefault:"1.28" validate:"gt=0"`
	ExcludedCategory  string        `env:"EXCLUDED_CATEGORY" envDefault:"Capsula Jacula ✿"`
	DefaultLanguage   string        `env:"DEFAULT_LANGUAGE" envDefault:"es"`
	Pacing            time.Duration `env:"PACING" envDefault:"250ms"`
	CategoryMapping   string        `env:"CATEGORY_MAPPING" envDefault:"ids" validate:"oneof=ids names"`
	UnknownVisibility string        `env:"UNKNOWN_VISIBILITY" envDefault:"hidden" validate:"oneof=hidden ignore"`
	ManagedTag        string        `env:"MANAGED_TAG"`
}

type MysqlConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"3306"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	Database string `env:"DATABASE"`
}

type TelegramBotConfig struct {
	ChatId string `env:"CHAT_ID"`
	Token  string `env:"BOT_TOKEN"`
}
