package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kbazin/marks/internal/fetch"
	"github.com/kbazin/marks/internal/logger"
	"github.com/kbazin/marks/internal/session"
	redisstore "github.com/kbazin/marks/internal/store/redis"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time // for testing, defaults to time.Now
	AllowedHosts  []string         // Host headers allowed on admin endpoints
	AllowedCIDRS  []string         // IPs allowed on admin endpoints
	TrustProxy    bool             // true if running behind a trusted reverse proxy
	RedisClient   *redis.Client    // Redis client connection
	Store         *redisstore.Store
	Sessions      *session.Manager      // per-user list controllers
	Auth          *session.Provider     // token -> user resolution
	Titles        *fetch.TitleFetcher   // title-extraction lookup
	Summaries     *fetch.SummaryFetcher // reader-service lookup
	Icons         fetch.IconResolver    // favicon URL derivation
	MetadataTTL   time.Duration         // cached metadata lifetime (0 = cache disabled)
	ImportTrigger chan struct{}         // manual seed import trigger (nil if import disabled)

	// Rate limiting for mutating bookmark routes
	RateBurst        int
	RateRefillPerMin int
}
