package app_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typerace/internal/app"
	"typerace/internal/core"
	"typerace/internal/domain"
)

func testPool() *core.SentencePool {
	return core.NewSentencePool([]string{"one two three"})
}

func player(n int) domain.Player {
	return domain.Player{
		ID:   domain.PlayerID(fmt.Sprintf("sid-%d", n)),
		Addr: fmt.Sprintf("10.0.0.%d:5000", n),
	}
}

func TestRoomsCreateAndJoin(t *testing.T) {
	rooms := app.NewRooms(testPool())
	p1, p2 := player(1), player(2)

	rid := rooms.Create(p1)
	view, ok := rooms.Get(rid)
	require.True(t, ok)
	assert.Equal(t, domain.StatusWaiting, view.Status)
	assert.Len(t, view.Players, 1)
	assert.Empty(t, view.Sentence)

	sentence, players, err := rooms.TryJoin(rid, p2)
	require.NoError(t, err)
	assert.Equal(t, "one two three", sentence)
	assert.Len(t, players, 2)

	view, ok = rooms.Get(rid)
	require.True(t, ok)
	assert.Equal(t, domain.StatusPlaying, view.Status)
	assert.Equal(t, sentence, view.Sentence)
}

func TestRoomsJoinErrors(t *testing.T) {
	rooms := app.NewRooms(testPool())
	p1, p2, p3 := player(1), player(2), player(3)

	_, _, err := rooms.TryJoin("0000", p2)
	assert.ErrorIs(t, err, app.ErrRoomNotFound)

	rid := rooms.Create(p1)
	_, _, err = rooms.TryJoin(rid, p2)
	require.NoError(t, err)

	// A third join never displaces an existing player.
	_, _, err = rooms.TryJoin(rid, p3)
	assert.ErrorIs(t, err, app.ErrRoomNotWaiting)
	view, ok := rooms.Get(rid)
	require.True(t, ok)
	assert.Equal(t, []domain.Player{p1, p2}, view.Players)
}

func TestRoomsConcurrentJoin(t *testing.T) {
	rooms := app.NewRooms(testPool())
	rid := rooms.Create(player(0))

	const joiners = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 1; i <= joiners; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, _, err := rooms.TryJoin(rid, player(n)); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	view, ok := rooms.Get(rid)
	require.True(t, ok)
	assert.Len(t, view.Players, 2)
}

func TestRoomsRecord(t *testing.T) {
	rooms := app.NewRooms(testPool())
	p1, p2 := player(1), player(2)
	rid := rooms.Create(p1)
	sentence, _, err := rooms.TryJoin(rid, p2)
	require.NoError(t, err)

	// First submission is pending.
	out, err := rooms.Record(rid, p1.ID, sentence, 3)
	require.NoError(t, err)
	assert.False(t, out.Complete)

	// Duplicate submission is rejected, idempotently.
	_, err = rooms.Record(rid, p1.ID, sentence, 1)
	assert.ErrorIs(t, err, app.ErrDuplicateResult)

	// Second submission completes the race; slower elapsed means lower wpm.
	out, err = rooms.Record(rid, p2.ID, sentence, 6)
	require.NoError(t, err)
	require.True(t, out.Complete)
	assert.Equal(t, p1.Addr, out.Winner)
	require.Len(t, out.Results, 2)
	assert.Greater(t, out.Results[p1.Addr].WPM, out.Results[p2.Addr].WPM)

	view, ok := rooms.Get(rid)
	require.True(t, ok)
	assert.Equal(t, domain.StatusFinished, view.Status)

	// Finished rooms accept nothing further.
	_, err = rooms.Record(rid, p1.ID, sentence, 1)
	assert.ErrorIs(t, err, app.ErrRoomNotPlaying)
}

func TestRoomsRecordDraw(t *testing.T) {
	rooms := app.NewRooms(testPool())
	p1, p2 := player(1), player(2)
	rid := rooms.Create(p1)
	sentence, _, err := rooms.TryJoin(rid, p2)
	require.NoError(t, err)

	_, err = rooms.Record(rid, p1.ID, sentence, 3)
	require.NoError(t, err)
	out, err := rooms.Record(rid, p2.ID, sentence, 3)
	require.NoError(t, err)
	require.True(t, out.Complete)
	assert.Equal(t, domain.WinnerDraw, out.Winner)
}

func TestRoomsRecordBeforeStart(t *testing.T) {
	rooms := app.NewRooms(testPool())
	p1 := player(1)
	rid := rooms.Create(p1)

	_, err := rooms.Record(rid, p1.ID, "anything", 3)
	assert.ErrorIs(t, err, app.ErrRoomNotPlaying)

	_, err = rooms.Record("0000", p1.ID, "anything", 3)
	assert.ErrorIs(t, err, app.ErrRoomNotFound)
}

func TestRoomsConcurrentRecord(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	rooms := app.NewRooms(testPool())

	const races = 100
	for i := 0; i < races; i++ {
		p1, p2 := player(2*i), player(2*i+1)
		rid := rooms.Create(p1)
		sentence, _, err := rooms.TryJoin(rid, p2)
		require.NoError(t, err)

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			completes int
		)
		for _, pid := range []domain.PlayerID{p1.ID, p2.ID} {
			wg.Add(1)
			go func(pid domain.PlayerID) {
				defer wg.Done()
				out, err := rooms.Record(rid, pid, sentence, 3)
				if err == nil && out.Complete {
					mu.Lock()
					completes++
					mu.Unlock()
				}
			}(pid)
		}
		wg.Wait()

		// Exactly one submission observes completion per race.
		require.Equal(t, 1, completes)
	}
}

func TestRoomsDelete(t *testing.T) {
	rooms := app.NewRooms(testPool())
	rid := rooms.Create(player(1))
	require.Equal(t, 1, rooms.Len())

	rooms.Delete(rid)
	assert.Equal(t, 0, rooms.Len())
	_, ok := rooms.Get(rid)
	assert.False(t, ok)

	// Deleting twice is a no-op.
	rooms.Delete(rid)
	assert.Equal(t, 0, rooms.Len())
}

func TestRoomsIDsDistinctWhileLive(t *testing.T) {
	rooms := app.NewRooms(testPool())
	seen := make(map[domain.RoomID]bool)
	for i := 0; i < 100; i++ {
		rid := rooms.Create(player(i))
		require.False(t, seen[rid])
		seen[rid] = true
	}
	assert.Equal(t, 100, rooms.Len())
}
