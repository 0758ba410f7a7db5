package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the process configuration, loaded once at startup and passed
// into constructors. No component reads the environment afterwards.
type Config struct {
	DBDSN          string
	HTTPAddr       string
	Environment    string
	MigrationsPath string
	CORSOrigins    []string

	// Matching weights; zero values fall back to the defaults.
	MatchWeightSubjects     int
	MatchWeightLocation     int
	MatchWeightLevelStyle   int
	MatchWeightAvailability int
	MatchWeightRating       int
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		Environment:    os.Getenv("ENV"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),

		MatchWeightSubjects:     envInt("MATCH_WEIGHT_SUBJECTS"),
		MatchWeightLocation:     envInt("MATCH_WEIGHT_LOCATION"),
		MatchWeightLevelStyle:   envInt("MATCH_WEIGHT_LEVEL_STYLE"),
		MatchWeightAvailability: envInt("MATCH_WEIGHT_AVAILABILITY"),
		MatchWeightRating:       envInt("MATCH_WEIGHT_RATING"),
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

// HasCustomWeights reports whether every weight override is set.
func (c *Config) HasCustomWeights() bool {
	return c.MatchWeightSubjects > 0 &&
		c.MatchWeightLocation > 0 &&
		c.MatchWeightLevelStyle > 0 &&
		c.MatchWeightAvailability > 0 &&
		c.MatchWeightRating > 0
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Ignoring non-numeric %s=%q", key, v)
		return 0
	}
	return n
}
