package eventlog_test

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenforge/permit721/internal/eventlog"
	"github.com/tokenforge/permit721/internal/registry"
)

var (
	alice = common.HexToAddress("0x0000000000000000000000000000000000000001")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000002")
)

func openTestLog(t *testing.T) *eventlog.Log {
	t.Helper()
	l, err := eventlog.Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestAppendAndRecent(t *testing.T) {
	l := openTestLog(t)

	err := l.Append([]registry.Event{
		registry.TransferEvent{Receiver: alice, TokenID: 1}, // mint: zero sender
		registry.ApprovalEvent{Owner: alice, Approved: bob, TokenID: 1},
		registry.ApprovalForAllEvent{Owner: alice, Operator: bob, Enabled: true},
	})
	require.NoError(t, err)

	recs, err := l.Recent(10)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "Transfer", recs[0].Kind)
	assert.Empty(t, recs[0].Sender, "mint transfers log an empty sender")
	assert.Equal(t, alice.Hex(), recs[0].Receiver)
	assert.Equal(t, uint64(1), recs[0].TokenID)

	assert.Equal(t, "Approval", recs[1].Kind)
	assert.Equal(t, alice.Hex(), recs[1].Owner)
	assert.Equal(t, bob.Hex(), recs[1].Approved)

	assert.Equal(t, "ApprovalForAll", recs[2].Kind)
	assert.Equal(t, bob.Hex(), recs[2].Operator)
	assert.True(t, recs[2].Enabled)

	// Ids are monotone, timestamps set.
	assert.Less(t, recs[0].ID, recs[1].ID)
	assert.False(t, recs[0].At.IsZero())
}

func TestRecentLimitKeepsNewest(t *testing.T) {
	l := openTestLog(t)

	for i := uint64(1); i <= 5; i++ {
		require.NoError(t, l.Append([]registry.Event{
			registry.TransferEvent{Sender: alice, Receiver: bob, TokenID: i},
		}))
	}

	recs, err := l.Recent(2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, uint64(4), recs[0].TokenID)
	assert.Equal(t, uint64(5), recs[1].TokenID, "oldest-first within the newest window")
}

func TestSince(t *testing.T) {
	l := openTestLog(t)

	require.NoError(t, l.Append([]registry.Event{
		registry.TransferEvent{Sender: alice, Receiver: bob, TokenID: 1},
		registry.TransferEvent{Sender: bob, Receiver: alice, TokenID: 1},
	}))

	all, err := l.Since(0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	tail, err := l.Since(all[0].ID)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, all[1].ID, tail[0].ID)

	none, err := l.Since(all[1].ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAppendNothing(t *testing.T) {
	l := openTestLog(t)
	require.NoError(t, l.Append(nil))

	recs, err := l.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestLogPersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	l, err := eventlog.Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Append([]registry.Event{
		registry.TransferEvent{Sender: alice, Receiver: bob, TokenID: 7},
	}))
	require.NoError(t, l.Close())

	l2, err := eventlog.Open(path)
	require.NoError(t, err)
	defer l2.Close()

	recs, err := l2.Recent(10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, uint64(7), recs[0].TokenID)
}
