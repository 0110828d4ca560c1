package receipt

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kassa/internal/core/apperror"
	"kassa/internal/core/clock"
	corenumerator "kassa/internal/core/numerator"
	"kassa/internal/core/types"
	"kassa/internal/infrastructure/numerator"
	"kassa/internal/infrastructure/storage/flatfile"
	"kassa/pkg/logger"
)

const header = "serial_nr;time;product_id;product_description;amount;price;type;campaign\r\n"

func testCtx() context.Context {
	return logger.WithLogger(context.Background(), logger.NewNop())
}

func writeDay(t *testing.T, dir, date string, rows ...string) {
	t.Helper()
	content := header + strings.Join(rows, "\r\n")
	if len(rows) > 0 {
		content += "\r\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "receipt_"+date+".txt"), []byte(content), 0o644))
}

func newTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	s := NewStore(StoreConfig{
		Partitions: flatfile.NewDailyPartitions(dir, "receipt_", ".txt", Columns),
		Clock:      clock.NewMockClock(paidAt),
	})
	s.SetNumerator(numerator.New(s, corenumerator.DefaultConfig()))
	require.NoError(t, s.Load(testCtx()))
	return s
}

func TestStore_Load_GroupsConsecutiveRows(t *testing.T) {
	dir := t.TempDir()
	writeDay(t, dir, "20240114",
		"5;09:00:00;A1;Milk;2;10.0;q;no",
		"5;09:00:00;W1;Apples;0.5;24.9;w;no",
		"6;09:10:00;A1;Milk;1;10.0;q;no",
		"7;09:20:00;W1;Apples;1.0;19.9;w;yes",
	)

	s := newTestStore(t, dir)
	assert.Equal(t, []string{"20240114"}, s.Dates())

	receipts := s.ReceiptsOn("20240114")
	require.Len(t, receipts, 3)
	assert.Equal(t, "5", receipts[0].Serial())
	assert.Equal(t, 2, receipts[0].Len())
	assert.Equal(t, 1, receipts[1].Len())
	assert.Equal(t, KindHistorical, receipts[2].Kind())
	assert.Equal(t, "09:20:00", receipts[2].Time())

	assert.True(t, types.MustMoney("32.45").Equal(receipts[0].Total()))
	assert.True(t, types.MustMoney("19.9").Equal(receipts[2].Total()))
}

func TestStore_Load_HistoricalRowsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rows := []string{
		"3;12:00:00;A1;Milk;2;5.0;q;yes",
		"3;12:00:00;W1;Apples;0.75;24.9;w;no",
	}
	writeDay(t, dir, "20240115", rows...)

	s := newTestStore(t, dir)
	r, ok := s.FindBySerial("3")
	require.True(t, ok)

	got := make([]string, 0, len(rows))
	for _, row := range r.Rows() {
		got = append(got, strings.Join(row, ";"))
	}
	assert.Equal(t, rows, got)

	lines := r.Lines()
	assert.True(t, lines[0].IsOnCampaign(r.ReferenceDate()))
	assert.True(t, types.MustMoney("5.0").Equal(lines[0].ActivePrice(r.ReferenceDate())))
}

func TestStore_Load_InterleavedSerialIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	writeDay(t, dir, "20240114",
		"1;09:00:00;A1;Milk;2;10.0;q;no",
		"2;09:10:00;A1;Milk;1;10.0;q;no",
		"1;09:00:00;W1;Apples;0.5;24.9;w;no",
	)

	s := NewStore(StoreConfig{Partitions: flatfile.NewDailyPartitions(dir, "receipt_", ".txt", Columns)})
	err := s.Load(testCtx())
	require.Error(t, err)
	assert.True(t, apperror.IsCorruptLog(err))
}

func TestStore_Load_CorruptRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{name: "serial", row: "x;09:00:00;A1;Milk;2;10.0;q;no"},
		{name: "time", row: "1;9 o'clock;A1;Milk;2;10.0;q;no"},
		{name: "amount", row: "1;09:00:00;A1;Milk;two;10.0;q;no"},
		{name: "price", row: "1;09:00:00;A1;Milk;2;;q;no"},
		{name: "type", row: "1;09:00:00;A1;Milk;2;10.0;kg;no"},
		{name: "campaign flag", row: "1;09:00:00;A1;Milk;2;10.0;q;maybe"},
		{name: "arity", row: "1;09:00:00;A1;Milk;2;10.0;q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeDay(t, dir, "20240114", tt.row)

			s := NewStore(StoreConfig{Partitions: flatfile.NewDailyPartitions(dir, "receipt_", ".txt", Columns)})
			assert.Error(t, s.Load(testCtx()))
		})
	}
}

func TestStore_CreateDraft_Serials(t *testing.T) {
	t.Run("fresh directory starts at one", func(t *testing.T) {
		s := newTestStore(t, t.TempDir())

		r, err := s.CreateDraft(testCtx())
		require.NoError(t, err)
		assert.Equal(t, "1", r.Serial())
		assert.Equal(t, "20240115", r.Date())
		assert.Equal(t, "10:30:00", r.Time())
	})

	t.Run("follows most recent date", func(t *testing.T) {
		dir := t.TempDir()
		writeDay(t, dir, "20240110", "99;09:00:00;A1;Milk;1;10.0;q;no")
		writeDay(t, dir, "20240114",
			"6;09:00:00;A1;Milk;1;10.0;q;no",
			"7;09:10:00;A1;Milk;1;10.0;q;no",
		)
		s := newTestStore(t, dir)

		r, err := s.CreateDraft(testCtx())
		require.NoError(t, err)
		assert.Equal(t, "8", r.Serial())
	})

	t.Run("days without receipts are ignored", func(t *testing.T) {
		dir := t.TempDir()
		writeDay(t, dir, "20240110", "4;09:00:00;A1;Milk;1;10.0;q;no")
		writeDay(t, dir, "20240114")
		s := newTestStore(t, dir)

		assert.Equal(t, []string{"20240110"}, s.Dates())
		r, err := s.CreateDraft(testCtx())
		require.NoError(t, err)
		assert.Equal(t, "5", r.Serial())
	})

	t.Run("abandoned draft does not burn a number", func(t *testing.T) {
		s := newTestStore(t, t.TempDir())

		_, err := s.CreateDraft(testCtx())
		require.NoError(t, err)
		r, err := s.CreateDraft(testCtx())
		require.NoError(t, err)
		assert.Equal(t, "1", r.Serial())
	})
}

func TestStore_CreateDraft_WithoutNumerator(t *testing.T) {
	s := NewStore(StoreConfig{Partitions: flatfile.NewDailyPartitions(t.TempDir(), "receipt_", ".txt", Columns)})
	require.NoError(t, s.Load(testCtx()))

	_, err := s.CreateDraft(testCtx())
	assert.Error(t, err)
}

func TestStore_CreateDraft_UsesNumerator(t *testing.T) {
	s := NewStore(StoreConfig{
		Partitions: flatfile.NewDailyPartitions(t.TempDir(), "receipt_", ".txt", Columns),
		Clock:      clock.NewMockClock(paidAt),
		Numerator: &corenumerator.MockGenerator{
			NextNumberFunc: func(context.Context) (string, error) { return "1000", nil },
		},
	})

	r, err := s.CreateDraft(testCtx())
	require.NoError(t, err)
	assert.Equal(t, "1000", r.Serial())
}

func TestStore_CommitDraft(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)

	r, err := s.CreateDraft(testCtx())
	require.NoError(t, err)
	require.NoError(t, r.AddLine(milk("3")))
	require.NoError(t, s.CommitDraft(testCtx(), r))

	raw, err := os.ReadFile(filepath.Join(dir, "receipt_20240115.txt"))
	require.NoError(t, err)
	assert.Equal(t, header+"1;10:30:00;A1;Milk;3;10.0;q;no\r\n", string(raw))

	assert.Equal(t, []string{"20240115"}, s.Dates())
	found, ok := s.FindBySerial("1")
	require.True(t, ok)
	assert.Equal(t, KindHistorical, found.Kind())
	assert.True(t, types.MustMoney("30").Equal(found.Total()))

	assert.Error(t, r.AddLine(milk("1")), "paid receipt must not accept lines")
	assert.Error(t, s.CommitDraft(testCtx(), r), "receipt must not be written twice")

	next, err := s.CreateDraft(testCtx())
	require.NoError(t, err)
	assert.Equal(t, "2", next.Serial())
}

func TestStore_CommitDraft_EmptyIsNoop(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)

	r, err := s.CreateDraft(testCtx())
	require.NoError(t, err)
	require.NoError(t, s.CommitDraft(testCtx(), r))

	assert.NoFileExists(t, filepath.Join(dir, "receipt_20240115.txt"))
	assert.Empty(t, s.Dates())
	_, ok := s.FindBySerial("1")
	assert.False(t, ok)
}

func TestStore_CommitDraft_AppendsToExistingDay(t *testing.T) {
	dir := t.TempDir()
	writeDay(t, dir, "20240115", "1;09:00:00;A1;Milk;1;10.0;q;no")
	s := newTestStore(t, dir)

	r, err := s.CreateDraft(testCtx())
	require.NoError(t, err)
	require.NoError(t, r.AddLine(apples("0.5")))
	require.NoError(t, s.CommitDraft(testCtx(), r))

	raw, err := os.ReadFile(filepath.Join(dir, "receipt_20240115.txt"))
	require.NoError(t, err)
	assert.Equal(t, header+
		"1;09:00:00;A1;Milk;1;10.0;q;no\r\n"+
		"2;10:30:00;W1;Apples;0.5;24.9;w;no\r\n", string(raw))
	assert.Len(t, s.ReceiptsOn("20240115"), 2)
}

func TestStore_CommitDraft_NewDayAfterDiscovered(t *testing.T) {
	dir := t.TempDir()
	writeDay(t, dir, "20240114", "7;09:00:00;A1;Milk;1;10.0;q;no")
	s := newTestStore(t, dir)

	r, err := s.CreateDraft(testCtx())
	require.NoError(t, err)
	require.NoError(t, r.AddLine(milk("1")))
	require.NoError(t, s.CommitDraft(testCtx(), r))

	assert.Equal(t, "8", r.Serial())
	assert.Equal(t, []string{"20240114", "20240115"}, s.Dates())
}

func TestStore_PersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)

	for _, p := range [][]string{{"3"}, {"1", "0.25"}} {
		r, err := s.CreateDraft(testCtx())
		require.NoError(t, err)
		require.NoError(t, r.AddLine(milk(p[0])))
		if len(p) > 1 {
			require.NoError(t, r.AddLine(apples(p[1])))
		}
		require.NoError(t, s.CommitDraft(testCtx(), r))
	}

	before, ok := s.FindBySerial("2")
	require.True(t, ok)

	restarted := newTestStore(t, dir)
	after, ok := restarted.FindBySerial("2")
	require.True(t, ok)
	assert.Equal(t, before.Rows(), after.Rows())
	assert.True(t, before.Total().Equal(after.Total()))

	r, err := restarted.CreateDraft(testCtx())
	require.NoError(t, err)
	assert.Equal(t, "3", r.Serial())
}

func TestStore_FindBySerial_Missing(t *testing.T) {
	s := newTestStore(t, t.TempDir())

	r, ok := s.FindBySerial("42")
	assert.False(t, ok)
	assert.Nil(t, r)
}
