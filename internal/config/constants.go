package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Mighty Search"
	AppID             = "com.github.nan-gogh.mighty-pokemon-searchstring-generator"
	LocalhostBindAddr = "127.0.0.1"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagConfig       = "config"
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagOnce         = "once"
	FlagDescConfig   = "Path to configuration file (optional)"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging"
	FlagDescOnce     = "Print the generated search strings once and exit"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Refresh Boundary Modes
// -----------------------------------------------------------------------------

// The daily refresh can track either the host's local midnight (the
// behavior of the original page, where the UI pulse follows the user's
// wall clock) or the UTC midnight that the elapsed-day math is anchored
// to. The two disagree by up to the local UTC offset; which one is
// wanted is a product decision, so it is exposed as configuration
// rather than resolved here.
const (
	BoundaryLocal = "local"
	BoundaryUTC   = "utc"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultListen       = "127.0.0.1:18080"
	DefaultLanguage     = "en"
	DefaultBoundary     = BoundaryLocal
	DefaultSafetyMargin = 1000 * time.Millisecond
	DefaultLogLevel     = "info"

	// MillisPerDay is the fixed divisor for elapsed-day computation.
	// Calendar days (leap seconds, DST) deliberately play no part.
	MillisPerDay = 86_400_000
)

// SupportedLanguages defines the list of available keyword languages (ISO 639-1).
var SupportedLanguages = []string{"en", "de", "fr"}

// -----------------------------------------------------------------------------
// Search Query Format
// -----------------------------------------------------------------------------

const (
	// FormatAgeRange expects keyword, min, max: "age2-3".
	FormatAgeRange = "%s%d-%d"

	// QuerySeparator joins per-event ranges into one query. In the
	// game's search syntax the comma is the OR operator.
	QuerySeparator = ","
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeySearchKeyword = "search_keyword"
)

// -----------------------------------------------------------------------------
// Environment & Config Keys (viper)
// -----------------------------------------------------------------------------

const (
	EnvPrefix = "MIGHTY_SEARCH"

	CfgKeyListen        = "listen"
	CfgKeyLanguage      = "language"
	CfgKeyBoundary      = "refresh_boundary"
	CfgKeyTimezone      = "timezone"
	CfgKeySafetyMargin  = "safety_margin"
	CfgKeyInitialRender = "initial_render"
	CfgKeyLogLevel      = "logging.level"
	CfgKeyTgEnabled     = "telegram.enabled"
	CfgKeyTgBotToken    = "telegram.bot_token"
	CfgKeyTgChatID      = "telegram.chat_id"
	CfgKeyTgMaxRetries  = "telegram.max_retries"
	CfgKeyTgRetryDelay  = "telegram.retry_delay_base"
	CfgKeyEvents        = "events"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar Feed
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Mighty Search//Feed//EN"
	ICalCalName = "Mighty Pokémon Events"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "mightysearch"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTEnd      = "DTEND"
	PropDTStamp    = "DTSTAMP"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	FormatUID = "%s@%s"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	AllowedMethods     = "GET, HEAD"

	RouteRoot     = "/"
	RouteText     = "/search.txt"
	RouteCalendar = "/calendar.ics"
	RouteHealth   = "/health"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeJSON            = "application/json; charset=utf-8"
	MimeTextPlain       = "text/plain; charset=utf-8"
	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	QueryParamLang = "lang"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrConfigRead     = "failed to read config file"
	ErrConfigParse    = "failed to unmarshal config"
	ErrListenRequired = "configuration error: listen address is required"
	ErrBadBoundary    = "configuration error: refresh_boundary must be \"local\" or \"utc\""
	ErrBadMargin      = "configuration error: safety_margin must be positive"
	ErrBadTimezone    = "configuration error: unknown timezone"
	ErrBadLanguage    = "configuration error: unsupported language"
	ErrBadLogLevel    = "configuration error: logging.level must be one of: debug, info, warn, error"
	ErrTgTokenReq     = "configuration error: telegram.bot_token is required when telegram is enabled"
	ErrTgChatReq      = "configuration error: telegram.chat_id is required when telegram is enabled"
	ErrWindowOrder    = "event window end precedes start"
	ErrWindowParse    = "failed to parse event window timestamp"
	ErrWindowID       = "event window is missing an id"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrWriteResp      = "failed to write response body"
	ErrLocalesAccess  = "failed to access embedded locales"
	ErrLocaleLoad     = "failed to load locale file"
	ErrAppFailed      = "application failed unexpectedly"
	ErrNotifySend     = "failed to deliver notification"
	ErrTgChatID       = "invalid telegram chat ID"
	ErrTgInit         = "failed to create Telegram bot"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Search strings initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgHealthy      = "ok"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application stopped gracefully"
	MsgConfigLoaded   = "Configuration loaded"
	MsgRefreshStart   = "Refresh cycle started"
	MsgRefreshDone    = "Refresh cycle completed"
	MsgSchedulerArmed = "Scheduler armed"
	MsgSchedulerStop  = "Scheduler stopping due to context cancellation"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Search string cache updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgKeywordMissing = "Missing keyword translation, using fallback"
	MsgNotifySent     = "Notification delivered"
	MsgNotifyDisabled = "Telegram notifications disabled"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyListen    = "listen"
	LogKeyBoundary  = "boundary"
	LogKeyDelay     = "delay"
	LogKeyFireAt    = "fire_at"
	LogKeyMargin    = "margin"
	LogKeyEvent     = "event"
	LogKeyQuery     = "query"
	LogKeyCount     = "count"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain      = "main"
	CompEngine    = "engine"
	CompScheduler = "scheduler"
	CompServer    = "server"
	CompLocale    = "locale"
	CompNotify    = "notify"
)
