package config

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/teamloft/project-management-api/internal/models"
)

type OAuthClient struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type Config struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	RedisHost      string
	RedisPort      string
	SessionSecret  string
	GinMode        string
	ServerAddr     string
	FrontendOrigin string

	GoogleOAuth   OAuthClient
	GithubOAuth   OAuthClient
	FacebookOAuth OAuthClient
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		zap.L().Debug("no .env file found, using environment variables")
	}

	return &Config{
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "pmuser"),
		DBPassword:     getEnv("DB_PASSWORD", "pmpassword"),
		DBName:         getEnv("DB_NAME", "project_management"),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		SessionSecret:  getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),

		GoogleOAuth: OAuthClient{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		},
		GithubOAuth: OAuthClient{
			ClientID:     getEnv("GITHUB_CLIENT_ID", ""),
			ClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GITHUB_REDIRECT_URL", ""),
		},
		FacebookOAuth: OAuthClient{
			ClientID:     getEnv("FACEBOOK_CLIENT_ID", ""),
			ClientSecret: getEnv("FACEBOOK_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("FACEBOOK_REDIRECT_URL", ""),
		},
	}
}

// OAuthConfigs builds the oauth2 configuration for each supported external
// provider. Providers without credentials are still present; their login
// endpoints fail at the provider instead of at startup.
func (c *Config) OAuthConfigs() map[models.Provider]*oauth2.Config {
	return map[models.Provider]*oauth2.Config{
		models.ProviderGoogle: {
			ClientID:     c.GoogleOAuth.ClientID,
			ClientSecret: c.GoogleOAuth.ClientSecret,
			RedirectURL:  c.GoogleOAuth.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		models.ProviderGithub: {
			ClientID:     c.GithubOAuth.ClientID,
			ClientSecret: c.GithubOAuth.ClientSecret,
			RedirectURL:  c.GithubOAuth.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		models.ProviderFacebook: {
			ClientID:     c.FacebookOAuth.ClientID,
			ClientSecret: c.FacebookOAuth.ClientSecret,
			RedirectURL:  c.FacebookOAuth.RedirectURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		},
	}
}

// NewLogger builds the process-wide zap logger.
func NewLogger(ginMode string) (*zap.Logger, error) {
	if ginMode == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
