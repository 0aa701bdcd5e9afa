package tokens

import (
	"fmt"

	"github.com/ethanbaker/lawcus-relay/pkg/tokens"
	"github.com/ethanbaker/lawcus-relay/pkg/utils"
	"github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Backend kinds accepted by TOKEN_STORE
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindMySQL  = "mysql"
	KindRedis  = "redis"
)

// Kind resolves which backend the configuration asks for. An explicit
// TOKEN_STORE wins; otherwise MySQL, then Redis, then the token file.
func Kind(cfg *utils.Config) string {
	if kind := cfg.Get("TOKEN_STORE"); kind != "" {
		return kind
	}
	if cfg.Get("MYSQL_DATABASE") != "" {
		return KindMySQL
	}
	if cfg.Get("REDIS_ADDR") != "" {
		return KindRedis
	}
	return KindFile
}

// Open creates the token backend selected by the configuration
func Open(cfg *utils.Config, logger *logrus.Logger) (tokens.Backend, error) {
	log := logger.WithField("module", "TOKENS")

	switch kind := Kind(cfg); kind {
	case KindMySQL:
		dbConfig := mysql.Config{
			User:      cfg.Get("MYSQL_USER"),
			Passwd:    cfg.Get("MYSQL_ROOT_PASSWORD"),
			Net:       "tcp",
			Addr:      fmt.Sprintf("%s:%s", cfg.GetWithDefault("MYSQL_HOST", "localhost"), cfg.GetWithDefault("MYSQL_PORT", "3306")),
			DBName:    cfg.Get("MYSQL_DATABASE"),
			ParseTime: true,
		}
		log.WithField("database", dbConfig.DBName).Info("using MySQL token store")
		return NewSQLStore(dbConfig.FormatDSN())

	case KindRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.GetWithDefault("REDIS_ADDR", "localhost:6379"),
			Password: cfg.Get("REDIS_PASSWORD"),
			DB:       cfg.GetIntWithDefault("REDIS_DB", 0),
		})
		log.WithField("addr", client.Options().Addr).Info("using Redis token store")
		return NewRedisStore(client, cfg.GetWithDefault("REDIS_KEY", "lawcus:tokens")), nil

	case KindFile:
		path := cfg.GetWithDefault("TOKENS_FILE", "tokens.yaml")
		log.WithField("path", path).Info("using file token store")
		return NewFileStore(path), nil

	case KindMemory:
		log.Warn("using in-memory token store (tokens will not persist across restarts)")
		return NewInMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown TOKEN_STORE %q", kind)
	}
}
