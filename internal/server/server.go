package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/config"
	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/engine"
)

// cacheItem stores one refresh cycle's rendered output for every
// supported language, plus HTTP caching metadata.
type cacheItem struct {
	jsonByLang   map[string][]byte
	textByLang   map[string][]byte
	ics          []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// SearchServer serves the generated search strings over HTTP. It is
// the external rendering collaborator: the scheduler hands it a fresh
// result set once per cycle and it displays them, nothing more.
type SearchServer struct {
	// cache uses atomic.Pointer for lock-free reads. Content changes
	// once per day while reads are arbitrary, so readers never contend.
	cache       atomic.Pointer[cacheItem]
	Listen      string
	defaultLang string
}

// NewSearchServer creates a new instance of the server.
func NewSearchServer(listen, defaultLang string) *SearchServer {
	return &SearchServer{
		Listen:      listen,
		defaultLang: defaultLang,
	}
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *SearchServer) Start(ctx context.Context) error {
	if s.Listen == "" {
		return errors.New(config.ErrListenRequired)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.handleIndex)
	mux.HandleFunc(config.RouteText, s.handleText)
	mux.HandleFunc(config.RouteCalendar, s.handleCalendar)
	mux.HandleFunc(config.RouteHealth, s.handleHealth)

	srv := &http.Server{
		Addr:         s.Listen,
		Handler:      mux,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyListen, s.Listen,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served content with a new result set.
func (s *SearchServer) Update(results map[string]engine.Result, ics []byte) error {
	jsonByLang := make(map[string][]byte, len(results))
	textByLang := make(map[string][]byte, len(results))

	hash := sha256.New()
	for _, lang := range sortedLangs(results) {
		result := results[lang]
		data, err := json.Marshal(result)
		if err != nil {
			return err
		}
		jsonByLang[lang] = data
		textByLang[lang] = []byte(result.Combined)
		hash.Write(data)
	}
	hash.Write(ics)

	item := &cacheItem{
		jsonByLang:   jsonByLang,
		textByLang:   textByLang,
		ics:          ics,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash.Sum(nil))),
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}

	// Atomic store ensures that any concurrent reader sees either the
	// old or the new complete item, never a partial state.
	s.cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyCount, len(jsonByLang),
		config.LogKeyETag, item.etag,
	)
	return nil
}

// handleIndex serves the per-event queries for the requested language
// as a JSON document.
func (s *SearchServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	// The root pattern matches everything; anything but the exact path
	// is a 404, not a readiness problem.
	if r.URL.Path != config.RouteRoot {
		http.NotFound(w, r)
		return
	}
	s.serveCached(w, r, config.MimeJSON, func(item *cacheItem) []byte {
		return s.pickLang(item.jsonByLang, r)
	})
}

// handleText serves the combined query string as plain text, the exact
// string a player pastes into the in-game search box.
func (s *SearchServer) handleText(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, r, config.MimeTextPlain, func(item *cacheItem) []byte {
		return s.pickLang(item.textByLang, r)
	})
}

// handleCalendar serves the event windows as an iCalendar feed.
func (s *SearchServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, r, config.MimeTextCalendar, func(item *cacheItem) []byte {
		return item.ics
	})
}

// handleHealth is a liveness probe, intentionally independent of the
// cache state.
func (s *SearchServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HeaderContentType, config.MimeTextPlain)
	fmt.Fprint(w, config.HTTPMsgHealthy)
}

// pickLang resolves the ?lang= parameter against the rendered set,
// falling back to the server's default language deterministically.
func (s *SearchServer) pickLang(byLang map[string][]byte, r *http.Request) []byte {
	lang := r.URL.Query().Get(config.QueryParamLang)
	if data, ok := byLang[lang]; ok {
		return data
	}
	return byLang[s.defaultLang]
}

// serveCached implements the shared serving mechanics: method
// validation, readiness, caching headers, and conditional requests.
func (s *SearchServer) serveCached(w http.ResponseWriter, r *http.Request, mime string, pick func(*cacheItem) []byte) {
	// 1. Method Validation
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	// 2. Load Data (Atomic / Lock-Free)
	item := s.cache.Load()

	// 3. Readiness Check
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	// 4. Set Response Headers
	w.Header().Set(config.HeaderContentType, mime)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	// 5. Check Conditional Headers (Client Caching)
	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	// 6. Serve Content
	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(pick(item))); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// sortedLangs returns the result languages in a deterministic order so
// the ETag stays stable for identical content across refreshes.
func sortedLangs(results map[string]engine.Result) []string {
	langs := make([]string, 0, len(results))
	for lang := range results {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}
