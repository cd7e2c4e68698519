package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"tiktok-studio/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	TikTok      TikTok      `json:"tiktok"`
	Session     Session     `json:"session"`
	Upload      Upload      `json:"upload"`
	Publish     Publish     `json:"publish"`
	RedisClient RedisClient `json:"redisClient"`
	Proxy       Proxy       `json:"proxy"`
}

type App struct {
	Port        int    `json:"port"`
	BaseURL     string `json:"baseURL"`
	Env         string `json:"env"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

// TikTok holds the open-platform client credentials and OAuth parameters.
type TikTok struct {
	ClientKey    string   `json:"clientKey"`
	ClientSecret string   `json:"clientSecret"`
	RedirectURI  string   `json:"redirectURI"`
	Scopes       []string `json:"scopes"`
}

type Session struct {
	Secret       string `json:"secret"`
	CookieName   string `json:"cookieName"`
	MaxAgeDays   int    `json:"maxAgeDays"`
	RefreshSkewS int    `json:"refreshSkewSeconds"`
}

type Upload struct {
	Dir          string `json:"dir"`
	MaxImageSize int64  `json:"maxImageSize"`
}

// Publish tunes the post-publishing lifecycle loop.
type Publish struct {
	ChunkSize        int64 `json:"chunkSize"`
	SingleChunkUnder int64 `json:"singleChunkUnder"`
	PollMaxAttempts  int   `json:"pollMaxAttempts"`
	PollIntervalMs   int   `json:"pollIntervalMs"`
	CleanupDelayMs   int   `json:"cleanupDelayMs"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Proxy struct {
	ImageDomains []string `json:"imageDomains"`
}

var C Config

func init() {
	LoadConfig()
	initApp(&C)
	initTikTok(&C)
	initSession(&C)
	initUpload(&C)
	initPublish(&C)
	initRedis(&C)
	initProxy(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	if C.App.Env == "" {
		C.App.Env = os.Getenv("ENV")
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 8080
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 8080
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		C.App.BaseURL = v
	}
	if C.App.BaseURL == "" {
		C.App.BaseURL = fmt.Sprintf("http://localhost:%d", C.App.Port)
	}
	C.App.BaseURL = strings.TrimRight(C.App.BaseURL, "/")
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
}

func initTikTok(C *Config) {
	if v := os.Getenv("TIKTOK_CLIENT_KEY"); v != "" {
		C.TikTok.ClientKey = v
	}
	if v := os.Getenv("TIKTOK_CLIENT_SECRET"); v != "" {
		C.TikTok.ClientSecret = v
	}
	if v := os.Getenv("TIKTOK_REDIRECT_URI"); v != "" {
		C.TikTok.RedirectURI = v
	}
	if C.TikTok.RedirectURI == "" {
		C.TikTok.RedirectURI = C.App.BaseURL + "/auth/callback"
	}
	if len(C.TikTok.Scopes) == 0 {
		C.TikTok.Scopes = []string{
			"user.info.basic",
			"user.info.profile",
			"user.info.stats",
			"video.list",
			"video.publish",
		}
	}
	if C.TikTok.ClientKey == "" || C.TikTok.ClientSecret == "" {
		logger.GetLogger().Warn("TikTok client credentials not set; OAuth login will fail. Provide TIKTOK_CLIENT_KEY and TIKTOK_CLIENT_SECRET.")
	}
}

func initSession(C *Config) {
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		C.Session.Secret = v
	}
	if C.Session.Secret == "" {
		C.Session.Secret = "default_secret_change_me_please_32ch"
		logger.GetLogger().Warn("SESSION_SECRET not set; using insecure default")
	}
	if C.Session.CookieName == "" {
		C.Session.CookieName = "tiktok_session"
	}
	// Cookie lifetime tracks the refresh token validity window, not the access token's.
	if C.Session.MaxAgeDays == 0 {
		C.Session.MaxAgeDays = 365
	}
	if C.Session.RefreshSkewS == 0 {
		C.Session.RefreshSkewS = 300
	}
}

func initUpload(C *Config) {
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		C.Upload.Dir = v
	}
	if C.Upload.Dir == "" {
		C.Upload.Dir = "uploads"
	}
	if C.Upload.MaxImageSize == 0 {
		C.Upload.MaxImageSize = 4 * 1024 * 1024
	}
}

func initPublish(C *Config) {
	if C.Publish.ChunkSize == 0 {
		C.Publish.ChunkSize = 10_000_000
	}
	if C.Publish.SingleChunkUnder == 0 {
		C.Publish.SingleChunkUnder = 5_000_000
	}
	if C.Publish.PollMaxAttempts == 0 {
		C.Publish.PollMaxAttempts = 30
	}
	if C.Publish.PollIntervalMs == 0 {
		C.Publish.PollIntervalMs = 3000
	}
	if C.Publish.CleanupDelayMs == 0 {
		C.Publish.CleanupDelayMs = 60_000
	}
}

func initRedis(C *Config) {
	if C.RedisClient.Host == "" {
		C.RedisClient.Host = os.Getenv("REDIS_HOST")
	}
	if C.RedisClient.Port == "" {
		if v := os.Getenv("REDIS_PORT"); v != "" {
			C.RedisClient.Port = v
		} else {
			C.RedisClient.Port = "6379"
		}
	}
	if C.RedisClient.Username == "" {
		C.RedisClient.Username = os.Getenv("REDIS_USERNAME")
	}
	if C.RedisClient.Password == "" {
		C.RedisClient.Password = os.Getenv("REDIS_PASSWORD")
	}
}

func initProxy(C *Config) {
	if len(C.Proxy.ImageDomains) == 0 {
		C.Proxy.ImageDomains = []string{"tiktokv.com", "tiktokcdn.com", "tiktok.com"}
	}
}
