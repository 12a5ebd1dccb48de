package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Defaults applied when the YAML file leaves a value empty.
const (
	DefaultGameMaxAge       = 7 * 24 * time.Hour
	DefaultUpstreamTimeout  = 8 * time.Second
	DefaultCatalogPageSize  = 500
	DefaultTokenExpiryGrace = 60 * time.Second
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Database *DatabaseConfig `json:"database" yaml:"database"`

	// SecretKey.Access verifies bearer tokens minted by the presentation layer.
	SecretKey struct {
		Access string `json:"access" yaml:"access"`
	} `json:"secretKey" yaml:"secretKey"`

	Twitch *TwitchConfig `json:"twitch" yaml:"twitch"`

	Upstream *UpstreamConfig `json:"upstream" yaml:"upstream"`

	Cache *CacheConfig `json:"cache" yaml:"cache"`

	Facets *FacetsConfig `json:"facets" yaml:"facets"`

	Translate *TranslateConfig `json:"translate" yaml:"translate"`

	Memo *MemoConfig `json:"memo" yaml:"memo"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// DatabaseConfig selects the GORM dialect. SQLite is meant for local runs and tests.
type DatabaseConfig struct {
	Driver      string           `json:"driver" yaml:"driver"`
	Postgres    *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`
	SQLite      SQLiteConfig     `json:"sqlite" yaml:"sqlite"`
	AutoMigrate bool             `json:"autoMigrate" yaml:"autoMigrate"`
}

// SQLiteConfig points at a database file. ":memory:" keeps everything in process.
type SQLiteConfig struct {
	Path string `json:"path" yaml:"path"`
}

// TwitchConfig holds the client credentials shared by IGDB and Helix.
// ClientID and ClientSecret are expected from the environment (TWITCH_CLIENTID, TWITCH_CLIENTSECRET).
type TwitchConfig struct {
	ClientID     string        `json:"clientId" yaml:"clientId"`
	ClientSecret string        `json:"clientSecret" yaml:"clientSecret"`
	TokenURL     string        `json:"tokenUrl" yaml:"tokenUrl"`
	ExpiryGrace  time.Duration `json:"expiryGrace" yaml:"expiryGrace"`
}

// UpstreamConfig points the metadata and live-activity clients at their endpoints.
type UpstreamConfig struct {
	IGDBBaseURL  string        `json:"igdbBaseUrl" yaml:"igdbBaseUrl"`
	HelixBaseURL string        `json:"helixBaseUrl" yaml:"helixBaseUrl"`
	Timeout      time.Duration `json:"timeout" yaml:"timeout"`
	PageSize     int           `json:"pageSize" yaml:"pageSize"`
	StreamsLimit int           `json:"streamsLimit" yaml:"streamsLimit"`
}

// CacheConfig defines the freshness window of cached game records.
type CacheConfig struct {
	GameMaxAge time.Duration `json:"gameMaxAge" yaml:"gameMaxAge"`
}

// FacetsConfig controls filter facet seeding. A zero MaxAge seeds the table once and never refreshes it.
type FacetsConfig struct {
	MaxAge time.Duration `json:"maxAge" yaml:"maxAge"`
}

// TranslateConfig configures the Google Cloud Translation adapter.
// An empty APIKey disables translation and summaries are stored as received.
type TranslateConfig struct {
	APIKey   string `json:"apiKey" yaml:"apiKey"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Source   string `json:"source" yaml:"source"`
	Target   string `json:"target" yaml:"target"`
}

// MemoConfig sizes the in-process memo used for suggestion and stream lookups.
type MemoConfig struct {
	Capacity           int           `json:"capacity" yaml:"capacity"`
	NumShards          int           `json:"numShards" yaml:"numShards"`
	EvictionPercentage int           `json:"evictionPercentage" yaml:"evictionPercentage"`
	SuggestionsTTL     time.Duration `json:"suggestionsTtl" yaml:"suggestionsTtl"`
	StreamsTTL         time.Duration `json:"streamsTtl" yaml:"streamsTtl"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// TWITCH_CLIENTSECRET -> twitch.clientSecret, aligned with the keys present in YAML.
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

// New loads .env (if present), then config.yaml with environment overrides.
func New() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if cfg.Database.Driver == DriverPostgres && cfg.Database.Postgres != nil {
		cfg.Database.Postgres.Replicas = buildReplicasFromEnv()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Postgres == nil {
			return errors.New("database.postgres must be set when driver is postgres")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Database.SQLite.Path) == "" {
			return errors.New("database.sqlite.path must be set when driver is sqlite")
		}
	default:
		return errors.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Twitch.ClientID == "" || c.Twitch.ClientSecret == "" {
		return errors.New("twitch client credentials must be provided through the environment")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.HTTP.MaxRequestBodySize) == "" {
		c.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if c.Database == nil {
		c.Database = &DatabaseConfig{Driver: DriverPostgres}
	}
	if c.Twitch == nil {
		c.Twitch = &TwitchConfig{}
	}
	if c.Twitch.TokenURL == "" {
		c.Twitch.TokenURL = "https://id.twitch.tv/oauth2/token"
	}
	if c.Twitch.ExpiryGrace <= 0 {
		c.Twitch.ExpiryGrace = DefaultTokenExpiryGrace
	}
	if c.Upstream == nil {
		c.Upstream = &UpstreamConfig{}
	}
	if c.Upstream.IGDBBaseURL == "" {
		c.Upstream.IGDBBaseURL = "https://api.igdb.com/v4"
	}
	if c.Upstream.HelixBaseURL == "" {
		c.Upstream.HelixBaseURL = "https://api.twitch.tv/helix"
	}
	if c.Upstream.Timeout <= 0 {
		c.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if c.Upstream.PageSize <= 0 {
		c.Upstream.PageSize = DefaultCatalogPageSize
	}
	if c.Upstream.StreamsLimit <= 0 {
		c.Upstream.StreamsLimit = 8
	}
	if c.Cache == nil {
		c.Cache = &CacheConfig{}
	}
	if c.Cache.GameMaxAge <= 0 {
		c.Cache.GameMaxAge = DefaultGameMaxAge
	}
	if c.Facets == nil {
		c.Facets = &FacetsConfig{}
	}
	if c.Translate == nil {
		c.Translate = &TranslateConfig{}
	}
	if c.Translate.Source == "" {
		c.Translate.Source = "en"
	}
	if c.Translate.Target == "" {
		c.Translate.Target = "pt"
	}
	if c.Memo == nil {
		c.Memo = &MemoConfig{}
	}
	if c.Memo.Capacity <= 0 {
		c.Memo.Capacity = 5000
	}
	if c.Memo.NumShards <= 0 {
		c.Memo.NumShards = 64
	}
	if c.Memo.EvictionPercentage <= 0 {
		c.Memo.EvictionPercentage = 10
	}
	if c.Memo.SuggestionsTTL <= 0 {
		c.Memo.SuggestionsTTL = time.Minute
	}
	if c.Memo.StreamsTTL <= 0 {
		c.Memo.StreamsTTL = 30 * time.Second
	}
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "load %s", path)
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv reads POSTGRES_REPLICAS_{index}_{HOST,PORT,USERNAME,PASSWORD}.
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			break
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		})
	}

	return replicas
}
