package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"
	"github.com/tendant/simple-oauth2/pkg/authorization"
	"github.com/tendant/simple-oauth2/pkg/client"
	pkgconfig "github.com/tendant/simple-oauth2/pkg/config"
	"github.com/tendant/simple-oauth2/pkg/exchange"
	exchangeapi "github.com/tendant/simple-oauth2/pkg/exchange/api"
	"github.com/tendant/simple-oauth2/pkg/login"
	"github.com/tendant/simple-oauth2/pkg/oauth2client"
	"github.com/tendant/simple-oauth2/pkg/scopes"
	"github.com/tendant/simple-oauth2/pkg/tokengenerator"
	"github.com/tendant/simple-oauth2/pkg/wellknown"
)

type Config struct {
	DbConfig    pkgconfig.DatabaseConfig
	JwtConfig   pkgconfig.JWTConfig
	AppConfig   app.AppConfig
	BaseURL     string `env:"BASE_URL" env-default:"http://localhost:4000"`
	UsePostgres bool   `env:"OAUTH2_USE_POSTGRES" env-default:"false"`

	// Seed data for local development
	SeedClientID     string `env:"SEED_CLIENT_ID" env-default:"server_api_1"`
	SeedClientName   string `env:"SEED_CLIENT_NAME" env-default:"Server Api 1"`
	SeedClientSecret string `env:"SEED_CLIENT_SECRET" env-default:"388D45FA-B36B-4988-BA59-B187D329C207"`
	SeedScope        string `env:"SEED_SCOPE" env-default:"api1"`
	SeedResource     string `env:"SEED_RESOURCE" env-default:"server_api_1"`
	SeedUsername     string `env:"SEED_USERNAME" env-default:"johndoe"`
	SeedUserEmail    string `env:"SEED_USER_EMAIL" env-default:"johndoe@example.com"`
	SeedUserPassword string `env:"SEED_USER_PASSWORD" env-default:"SecurePass123!"`
}

// loadEnvFile loads environment variables from .env file if it exists
// Only sets variables that are not already set in the environment
func loadEnvFile() {
	execPath, err := os.Executable()
	if err != nil {
		slog.Error("Failed to get executable path", "error", err)
		return
	}

	envFile := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		cwd, err := os.Getwd()
		if err != nil {
			slog.Error("Failed to get current working directory", "error", err)
			return
		}
		envFile = filepath.Join(cwd, ".env")
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Info("No .env file found", "path", envFile)
		return
	}

	slog.Info("Loading configuration from .env file", "path", envFile)
	if err := godotenv.Load(envFile); err != nil {
		slog.Error("Failed to load .env file", "error", err, "path", envFile)
	}
}

func main() {
	// Create a logger with source enabled
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	loadEnvFile()

	config := Config{}
	cleanenv.ReadEnv(&config)

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)

	ctx := context.Background()

	// Stores: Postgres enforces the at-most-one-valid-permanent authorization
	// constraint through a partial unique index; the in-memory stores are for
	// local development
	var (
		authzRepo  authorization.AuthorizationRepository
		clientRepo oauth2client.OAuth2ClientRepository
		userRepo   login.UserRepository
		scopeRepo  scopes.ScopeRepository
	)
	if config.UsePostgres {
		pool, err := dbutils.NewDbPool(ctx, config.DbConfig.ToDbConfig())
		if err != nil {
			slog.Error("Failed creating dbpool", "db", config.DbConfig.Database,
				"host", config.DbConfig.Host, "port", config.DbConfig.Port, "user", config.DbConfig.User)
			os.Exit(-1)
		}
		authzRepo, err = authorization.NewPostgresAuthorizationRepository(pool)
		if err != nil {
			slog.Error("Failed creating authorization repository", "error", err)
			os.Exit(-1)
		}
		clientRepo, err = oauth2client.NewPostgresOAuth2ClientRepository(pool)
		if err != nil {
			slog.Error("Failed creating client repository", "error", err)
			os.Exit(-1)
		}
		userRepo, err = login.NewPostgresUserRepository(pool)
		if err != nil {
			slog.Error("Failed creating user repository", "error", err)
			os.Exit(-1)
		}
		scopeRepo, err = scopes.NewPostgresScopeRepository(pool)
		if err != nil {
			slog.Error("Failed creating scope repository", "error", err)
			os.Exit(-1)
		}
		slog.Info("Using PostgreSQL stores")
	} else {
		authzRepo = authorization.NewInMemoryAuthorizationRepository()
		clientRepo = oauth2client.NewInMemoryOAuth2ClientRepository()
		userRepo = login.NewInMemoryUserRepository()
		scopeRepo = scopes.NewInMemoryScopeRepository()
		slog.Info("Using in-memory stores")
	}

	clientService := oauth2client.NewClientService(clientRepo)
	userService := login.NewUserService(userRepo)
	resolver := scopes.NewResourceResolver(scopeRepo)

	seed(ctx, &config, clientService, userService, resolver)

	engine := exchange.NewExchangeService(clientService, userService, resolver,
		authorization.NewAuthorizationService(authzRepo))

	accessExpiry, err := config.JwtConfig.ParseAccessTokenExpiry()
	if err != nil {
		slog.Error("Failed to parse access token expiry", "error", err)
		os.Exit(-1)
	}
	refreshExpiry, err := config.JwtConfig.ParseRefreshTokenExpiry()
	if err != nil {
		slog.Error("Failed to parse refresh token expiry", "error", err)
		os.Exit(-1)
	}
	idExpiry, err := config.JwtConfig.ParseIDTokenExpiry()
	if err != nil {
		slog.Error("Failed to parse id token expiry", "error", err)
		os.Exit(-1)
	}

	issuer := tokengenerator.NewTokenIssuer(
		tokengenerator.NewJwtTokenGenerator(config.JwtConfig.Secret, config.JwtConfig.Issuer, config.JwtConfig.Audience),
		tokengenerator.WithAccessTokenExpiry(accessExpiry),
		tokengenerator.WithRefreshTokenExpiry(refreshExpiry),
		tokengenerator.WithIDTokenExpiry(idExpiry),
	)

	tokenHandle := exchangeapi.NewHandle(engine, clientService, issuer)
	server.R.Mount("/api/v1.0/connect", exchangeapi.Routes(tokenHandle))

	// Demo protected resource guarded by issued access tokens
	ja := jwtauth.New("HS256", []byte(config.JwtConfig.Secret), nil)
	resourceHandle := client.NewResourceHandle(clientService)
	server.R.Mount("/api", client.Routes(resourceHandle, client.Verifier(ja)))

	wellknownHandler := wellknown.NewHandler(wellknown.Config{
		Issuer:        config.JwtConfig.Issuer,
		BaseURL:       config.BaseURL,
		ConnectPrefix: "/api/v1.0/connect",
		Scopes:        []string{config.SeedScope, "openid", "profile", "email", "roles", "offline_access"},
	})
	wellknownHandler.RegisterRoutesWithPrefix(func(pattern string, handler http.HandlerFunc) {
		server.R.Get(pattern, handler)
	})

	server.Run()
}

// seed registers the development client, scope and user so the server is
// usable out of the box. Registration is idempotent.
func seed(ctx context.Context, config *Config, clientService *oauth2client.ClientService,
	userService *login.UserService, resolver *scopes.ResourceResolver) {
	_, err := clientService.RegisterClient(ctx, &oauth2client.OAuth2Client{
		ClientID:   config.SeedClientID,
		ClientName: config.SeedClientName,
		GrantTypes: []string{oauth2client.GrantTypeClientCredentials, oauth2client.GrantTypeRefreshToken},
		Scopes:     []string{config.SeedScope, "openid", "offline_access"},
		ClientType: "confidential",
	}, config.SeedClientSecret)
	if err != nil {
		slog.Error("Failed to seed OAuth2 client", "client_id", config.SeedClientID, "error", err)
	} else {
		slog.Info("Seeded OAuth2 client", "client_id", config.SeedClientID)
	}

	if err := resolver.RegisterScope(ctx, config.SeedScope, config.SeedResource); err != nil {
		slog.Error("Failed to seed scope", "scope", config.SeedScope, "error", err)
	} else {
		slog.Info("Seeded scope", "scope", config.SeedScope, "resource", config.SeedResource)
	}

	_, err = userService.RegisterUser(ctx, &login.User{
		Username: config.SeedUsername,
		Name:     config.SeedUsername,
		Email:    config.SeedUserEmail,
		Roles:    []string{"user"},
	}, config.SeedUserPassword)
	if err != nil {
		slog.Error("Failed to seed user", "username", config.SeedUsername, "error", err)
	} else {
		slog.Info("Seeded user", "username", config.SeedUsername)
	}
}
