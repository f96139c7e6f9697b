package studentdata

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
	"vtopassist/lib/scrapers/vtop"
	"vtopassist/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cacheTTL time.Duration) (*Service, func()) {
	cleanup := telemetry.SetupForTesting(t, "test:services/studentdata")

	s := NewService(Options{
		BaseUrl:  "http://portal.invalid",
		CacheTTL: cacheTTL,
	})
	return s, func() {
		s.Close()
		cleanup()
	}
}

// mintSession registers a session without going through the captcha
// flow, the scraping layer is stubbed out in these tests anyway.
func mintSession(t *testing.T, s *Service) string {
	client, err := vtop.NewClient(vtop.ClientOptions{BaseUrl: "http://portal.invalid"})
	if err != nil {
		t.Fatal(err)
	}
	session, err := s.store.Create(client, s.opts.CacheTTL)
	if err != nil {
		t.Fatal(err)
	}
	return session.ID
}

func TestFetchResourcesPartialFailure(t *testing.T) {
	s, cleanup := newTestService(t, time.Minute)
	defer cleanup()

	broken := fmt.Errorf("marks view fell over")
	s.fetchOneFn = func(ctx context.Context, client *vtop.Client, kind ResourceKind, opts FetchOptions) (any, error) {
		if kind == KindMarks {
			return nil, broken
		}
		return string(kind) + "-data", nil
	}

	id := mintSession(t, s)
	kinds := []ResourceKind{KindAttendance, KindMarks, KindTimetable}

	results, err := s.FetchResources(context.Background(), id, kinds, FetchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, results, 3)
	require.NoError(t, results[KindAttendance].Err)
	require.Equal(t, "attendance-data", results[KindAttendance].Data)
	require.NoError(t, results[KindTimetable].Err)
	require.ErrorIs(t, results[KindMarks].Err, broken)
	require.Nil(t, results[KindMarks].Data)
}

func TestFetchResourcesCacheTTL(t *testing.T) {
	s, cleanup := newTestService(t, 50*time.Millisecond)
	defer cleanup()

	var calls atomic.Int64
	s.fetchOneFn = func(ctx context.Context, client *vtop.Client, kind ResourceKind, opts FetchOptions) (any, error) {
		calls.Add(1)
		return "fresh", nil
	}

	id := mintSession(t, s)
	kinds := []ResourceKind{KindCgpa}

	for i := 0; i < 3; i++ {
		_, err := s.FetchResources(context.Background(), id, kinds, FetchOptions{})
		if err != nil {
			t.Fatal(err)
		}
	}
	require.EqualValues(t, 1, calls.Load())

	time.Sleep(100 * time.Millisecond)

	_, err := s.FetchResources(context.Background(), id, kinds, FetchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	require.EqualValues(t, 2, calls.Load())
}

func TestFetchResourcesRefreshBypassesCache(t *testing.T) {
	s, cleanup := newTestService(t, time.Minute)
	defer cleanup()

	var calls atomic.Int64
	s.fetchOneFn = func(ctx context.Context, client *vtop.Client, kind ResourceKind, opts FetchOptions) (any, error) {
		calls.Add(1)
		return "fresh", nil
	}

	id := mintSession(t, s)
	kinds := []ResourceKind{KindCgpa}

	_, err := s.FetchResources(context.Background(), id, kinds, FetchOptions{})
	require.NoError(t, err)
	_, err = s.FetchResources(context.Background(), id, kinds, FetchOptions{Refresh: true})
	require.NoError(t, err)
	require.EqualValues(t, 2, calls.Load())
}

func TestSessionIsolation(t *testing.T) {
	s, cleanup := newTestService(t, time.Minute)
	defer cleanup()

	s.fetchOneFn = func(ctx context.Context, client *vtop.Client, kind ResourceKind, opts FetchOptions) (any, error) {
		return fmt.Sprintf("%p", client), nil
	}

	alice := mintSession(t, s)
	bob := mintSession(t, s)
	require.NotEqual(t, alice, bob)

	kinds := []ResourceKind{KindCgpa}
	aliceRes, err := s.FetchResources(context.Background(), alice, kinds, FetchOptions{})
	require.NoError(t, err)
	bobRes, err := s.FetchResources(context.Background(), bob, kinds, FetchOptions{})
	require.NoError(t, err)

	// Distinct clients, distinct caches.
	require.NotEqual(t, aliceRes[KindCgpa].Data, bobRes[KindCgpa].Data)
}

func TestLogoutTearsDownSession(t *testing.T) {
	s, cleanup := newTestService(t, time.Minute)
	defer cleanup()

	s.fetchOneFn = func(ctx context.Context, client *vtop.Client, kind ResourceKind, opts FetchOptions) (any, error) {
		return "data", nil
	}

	id := mintSession(t, s)
	_, err := s.FetchResources(context.Background(), id, []ResourceKind{KindCgpa}, FetchOptions{})
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background(), id))
	require.ErrorIs(t, s.Logout(context.Background(), id), ErrSessionNotFound)

	_, err = s.FetchResources(context.Background(), id, []ResourceKind{KindCgpa}, FetchOptions{})
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEvictIdleSessions(t *testing.T) {
	s, cleanup := newTestService(t, time.Minute)
	defer cleanup()

	id := mintSession(t, s)

	require.Equal(t, 0, s.store.EvictIdle(time.Hour))
	require.Equal(t, 1, s.store.EvictIdle(0))

	_, err := s.store.Get(id)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestReloginNoOpWhileAuthValid(t *testing.T) {
	s, cleanup := newTestService(t, time.Minute)
	defer cleanup()

	id := mintSession(t, s)
	session, err := s.store.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	session.Client.SetAuth(vtop.AuthContext{CsrfToken: "tok", AuthorizedID: "23BCE1024"})

	// Auth still valid, no network round trip happens.
	require.NoError(t, s.Relogin(context.Background(), id, Credentials{}))

	require.ErrorIs(t,
		s.Relogin(context.Background(), "no-such-session", Credentials{}),
		ErrSessionNotFound)
}

func TestRankFaculty(t *testing.T) {
	directory := []vtop.FacultyProfile{
		{Name: "AARTHI G", School: "SCOPE"},
		{Name: "RAMESH KUMAR", School: "SMEC"},
		{Name: "PRIYA RAMESH", School: "SCORE"},
	}

	ranked := rankFaculty(directory, "ramesh", 2)
	require.Len(t, ranked, 2)
	require.Equal(t, "RAMESH KUMAR", ranked[0].Name)

	all := rankFaculty(directory, "aarthi", 0)
	require.Len(t, all, 3)
	require.Equal(t, "AARTHI G", all[0].Name)
}
