// Package studentdata exposes portal scraping as a session-oriented
// service: login once, then batch-fetch any mix of academic resources
// with per-session caching and isolation.
package studentdata

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"
	"vtopassist/lib/scrapers/vtop"

	"github.com/antzucaro/matchr"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/studentdata")

type Options struct {
	BaseUrl string
	// CacheTTL bounds how stale served records may be. Zero means the
	// 30 minute default.
	CacheTTL time.Duration
	// SessionIdleTTL is how long an untouched session survives before
	// the sweeper tears it down. Zero means two hours.
	SessionIdleTTL time.Duration
	// FetchTimeout caps one whole FetchResources batch.
	FetchTimeout     time.Duration
	CaptchaSampleDir string
}

func (o *Options) withDefaults() {
	if o.CacheTTL == 0 {
		o.CacheTTL = 30 * time.Minute
	}
	if o.SessionIdleTTL == 0 {
		o.SessionIdleTTL = 2 * time.Hour
	}
	if o.FetchTimeout == 0 {
		o.FetchTimeout = 90 * time.Second
	}
}

type Service struct {
	opts    Options
	store   *sessionStore
	sweeper *cron.Cron

	// fetchOneFn is swappable in tests.
	fetchOneFn func(ctx context.Context, client *vtop.Client, kind ResourceKind, opts FetchOptions) (any, error)
}

func NewService(opts Options) *Service {
	opts.withDefaults()

	s := &Service{
		opts:       opts,
		store:      newSessionStore(),
		sweeper:    cron.New(),
		fetchOneFn: defaultFetchOne,
	}
	s.sweeper.AddFunc("@every 10m", func() {
		evicted := s.store.EvictIdle(s.opts.SessionIdleTTL)
		if evicted > 0 {
			slog.Info("evicted idle sessions", "count", evicted)
		}
	})
	s.sweeper.Start()
	return s
}

func (s *Service) Close() {
	s.sweeper.Stop()
}

type Credentials struct {
	Username string
	Password string
}

type LoginResult struct {
	Success   bool
	SessionId string
}

// Login authenticates against the portal and mints a session on
// success. Bad credentials and exhausted captcha attempts come back as
// Success=false, transport and throttling problems as errors.
func (s *Service) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	client, err := vtop.NewClient(vtop.ClientOptions{
		BaseUrl:          s.opts.BaseUrl,
		CaptchaSampleDir: s.opts.CaptchaSampleDir,
	})
	if err != nil {
		return LoginResult{}, err
	}

	err = client.Login(ctx, creds.Username, creds.Password)
	if errors.Is(err, vtop.ErrLoginFailed) {
		client.Close()
		return LoginResult{Success: false}, nil
	}
	if err != nil {
		client.Close()
		return LoginResult{}, err
	}

	session, err := s.store.Create(client, s.opts.CacheTTL)
	if err != nil {
		client.Close()
		return LoginResult{}, err
	}
	return LoginResult{Success: true, SessionId: session.ID}, nil
}

// Relogin re-authenticates an existing session in place after the
// portal expires it server-side. Concurrent callers serialize on the
// session, only the first one pays for the captcha dance.
func (s *Service) Relogin(ctx context.Context, sessionId string, creds Credentials) error {
	ctx, span := tracer.Start(ctx, "Relogin")
	defer span.End()

	session, err := s.store.Get(sessionId)
	if err != nil {
		return err
	}

	session.loginMu.Lock()
	defer session.loginMu.Unlock()
	if session.Client.Auth().Valid() {
		return nil
	}

	session.Cache.Purge()
	return session.Client.Login(ctx, creds.Username, creds.Password)
}

// FetchResources gathers the requested kinds concurrently. The batch
// always returns one Result per requested kind, failed kinds carry
// their error alongside their siblings' data.
func (s *Service) FetchResources(ctx context.Context, sessionId string, kinds []ResourceKind, opts FetchOptions) (map[ResourceKind]Result, error) {
	ctx, span := tracer.Start(ctx, "FetchResources")
	defer span.End()

	session, err := s.store.Get(sessionId)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()
	return s.fetchAll(ctx, session, kinds, opts), nil
}

func (s *Service) fetchOne(ctx context.Context, session *Session, kind ResourceKind, opts FetchOptions) (any, error) {
	return s.fetchOneFn(ctx, session.Client, kind, opts)
}

// Logout tears the session down completely: cache purged, cookie jar
// and auth context dropped, id unusable.
func (s *Service) Logout(ctx context.Context, sessionId string) error {
	_, span := tracer.Start(ctx, "Logout")
	defer span.End()

	session, ok := s.store.Delete(sessionId)
	if !ok {
		return ErrSessionNotFound
	}
	session.Cache.Purge()
	session.Client.Close()
	return nil
}

// SearchFaculty ranks the faculty directory against a free-form query
// using Jaro-Winkler similarity, substring hits always float to the
// top.
func (s *Service) SearchFaculty(ctx context.Context, sessionId string, query string, limit int) ([]vtop.FacultyProfile, error) {
	ctx, span := tracer.Start(ctx, "SearchFaculty")
	defer span.End()

	results, err := s.FetchResources(ctx, sessionId, []ResourceKind{KindFaculty}, FetchOptions{})
	if err != nil {
		return nil, err
	}
	outcome := results[KindFaculty]
	if outcome.Err != nil {
		return nil, outcome.Err
	}
	directory, _ := outcome.Data.([]vtop.FacultyProfile)

	return rankFaculty(directory, query, limit), nil
}

func rankFaculty(directory []vtop.FacultyProfile, query string, limit int) []vtop.FacultyProfile {
	query = strings.ToLower(strings.TrimSpace(query))

	type scored struct {
		profile vtop.FacultyProfile
		score   float64
	}
	ranked := make([]scored, 0, len(directory))
	for _, profile := range directory {
		name := strings.ToLower(profile.Name)
		score := matchr.JaroWinkler(name, query, true)
		if strings.Contains(name, query) {
			score += 1
		}
		ranked = append(ranked, scored{profile: profile, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]vtop.FacultyProfile, 0, limit)
	for _, r := range ranked[:limit] {
		out = append(out, r.profile)
	}
	return out
}
