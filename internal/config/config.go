package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	OpenAI struct {
		APIKey      string        `mapstructure:"api_key"`
		Model       string        `mapstructure:"model"`
		MaxTokens   int           `mapstructure:"max_tokens"`
		Temperature float32       `mapstructure:"temperature"`
		Timeout     time.Duration `mapstructure:"timeout"`
	} `mapstructure:"openai"`
	Storage struct {
		DownloadDir   string `mapstructure:"download_dir"`
		OffsiteCopy   bool   `mapstructure:"offsite_copy"`
		OffsiteFolder string `mapstructure:"offsite_folder"`
	} `mapstructure:"storage"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Tracing struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"tracing"`
}

func LoadConfig(paths ...string) (cfg Config, err error) {

	err = godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		viper.AddConfigPath(p)
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err = viper.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("app.port", "APP_PORT")
	viper.BindEnv("app.env", "APP_ENV")
	viper.BindEnv("db.dsn", "DB_DSN")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	viper.BindEnv("auth.jwt_secret", "JWT_SECRET")
	viper.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")

	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("openai.model", "OPENAI_MODEL")
	viper.BindEnv("openai.max_tokens", "OPENAI_MAX_TOKENS")
	viper.BindEnv("openai.temperature", "OPENAI_TEMPERATURE")
	viper.BindEnv("openai.timeout", "OPENAI_TIMEOUT")

	viper.BindEnv("storage.download_dir", "DOWNLOAD_DIR")
	viper.BindEnv("storage.offsite_copy", "STORAGE_OFFSITE_COPY")
	viper.BindEnv("storage.offsite_folder", "STORAGE_OFFSITE_FOLDER")

	viper.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	viper.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	viper.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	viper.BindEnv("tracing.otlp_endpoint", "OTLP_ENDPOINT")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("openai.model", "gpt-3.5-turbo")
	viper.SetDefault("openai.max_tokens", 4000)
	viper.SetDefault("openai.temperature", 0.7)
	viper.SetDefault("openai.timeout", 60*time.Second)
	viper.SetDefault("storage.download_dir", "downloads")
	viper.SetDefault("storage.offsite_folder", "backups/responses")

	err = viper.Unmarshal(&cfg)
	return
}
