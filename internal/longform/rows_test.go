package longform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPadRows_AlwaysFourteen(t *testing.T) {
	cases := []struct {
		name string
		in   []Row
	}{
		{"empty", nil},
		{"short", []Row{{SerialNumber: 1, AudioURL: "https://a/1.mp3", ImageURL: "https://a/1.png", Status: RowComplete}}},
		{"full", EmptyRows()},
		{"oversized", append(EmptyRows(), Row{SerialNumber: 15})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := PadRows(tc.in)
			require.Len(t, rows, ProjectRowCount)
			for i, r := range rows {
				require.Equal(t, i+1, r.SerialNumber)
			}
		})
	}
}

func TestPadRows_KeepsPersistedValues(t *testing.T) {
	rows := PadRows([]Row{
		{SerialNumber: 1, AudioURL: " https://cdn/a.mp3 ", ImageURL: "https://cdn/a.png", Status: "COMPLETE"},
		{SerialNumber: 2, Status: "garbage"},
	})
	require.Equal(t, "https://cdn/a.mp3", rows[0].AudioURL)
	require.Equal(t, RowComplete, rows[0].Status)
	require.Equal(t, RowIncomplete, rows[1].Status)
	require.Equal(t, RowIncomplete, rows[13].Status)
}

func TestNormalizeRows_RejectsWrongCount(t *testing.T) {
	_, err := NormalizeRows(make([]Row, 13))
	require.ErrorIs(t, err, ErrRowCount)
	_, err = NormalizeRows(make([]Row, 15))
	require.ErrorIs(t, err, ErrRowCount)

	rows, err := NormalizeRows(make([]Row, ProjectRowCount))
	require.NoError(t, err)
	require.Len(t, rows, ProjectRowCount)
}

func TestValidMediaURL(t *testing.T) {
	require.True(t, ValidMediaURL("https://cdn.discordapp.com/attachments/1/2/a.png"))
	require.True(t, ValidMediaURL("http://example.com/a.mp3"))
	require.False(t, ValidMediaURL(""))
	require.False(t, ValidMediaURL("ftp://example.com/a.mp3"))
	require.False(t, ValidMediaURL("not a url"))
	require.False(t, ValidMediaURL("/relative/path.png"))
	require.False(t, ValidMediaURL("https://"))
}

func TestCompletableRow_RequiresBothURLs(t *testing.T) {
	r := Row{AudioURL: "https://a/1.mp3", ImageURL: "https://a/1.png"}
	require.True(t, CompletableRow(r))

	r.ImageURL = ""
	require.False(t, CompletableRow(r))

	r.ImageURL = "nonsense"
	require.False(t, CompletableRow(r))
}

func TestEligibleRows_SkipsBlankAndComplete(t *testing.T) {
	rows := EmptyRows()
	rows[0].AudioURL = "https://a/1.mp3"
	rows[0].ImageURL = "https://a/1.png"
	rows[2] = Row{SerialNumber: 3, AudioURL: "https://a/3.mp3", ImageURL: "https://a/3.png", Status: RowComplete}
	rows[5].AudioURL = "https://a/6.mp3" // image missing: silently skipped

	eligible := EligibleRows(rows)
	require.Len(t, eligible, 1)
	require.Equal(t, 1, eligible[0].SerialNumber)
}

func TestEligibleRows_PreservesSerialOrder(t *testing.T) {
	rows := EmptyRows()
	for _, n := range []int{12, 4, 8} {
		rows[n-1].AudioURL = "https://a/a.mp3"
		rows[n-1].ImageURL = "https://a/i.png"
	}
	eligible := EligibleRows(rows)
	require.Len(t, eligible, 3)
	require.Equal(t, []int{4, 8, 12}, []int{eligible[0].SerialNumber, eligible[1].SerialNumber, eligible[2].SerialNumber})
}

func TestCompileReady(t *testing.T) {
	rows := EmptyRows()
	require.False(t, CompileReady(rows))

	for i := range rows {
		rows[i].AudioURL = "https://cdn/a.mp3"
		rows[i].ImageURL = "https://cdn/i.png"
		rows[i].Status = RowComplete
	}
	require.True(t, CompileReady(rows))

	rows[7].Status = RowIncomplete
	require.False(t, CompileReady(rows))
	rows[7].Status = RowComplete

	require.False(t, CompileReady(rows[:13]))
}

func TestCompileReady_DistrustsStaleCompleteStatus(t *testing.T) {
	// A row can carry complete status while its URLs were edited away;
	// the gate must hold it against the media URL rule, not status alone.
	rows := EmptyRows()
	for i := range rows {
		rows[i].Status = RowComplete
	}
	require.False(t, CompileReady(rows))

	for i := range rows {
		rows[i].AudioURL = "https://cdn/a.mp3"
		rows[i].ImageURL = "https://cdn/i.png"
	}
	require.True(t, CompileReady(rows))

	rows[3].ImageURL = "not a url"
	require.False(t, CompileReady(rows))
}
