package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerServesCounters(t *testing.T) {
	RecordWalkEntry()
	RecordDiffEntry("added")
	RecordCopied(2, 128)
	RecordDirsCreated(1)
	RecordPruned(1)
	RecordError()

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	for _, name := range []string{
		"redirt_walk_entries_total",
		"redirt_diff_entries_total",
		"redirt_files_copied_total",
		"redirt_dirs_created_total",
		"redirt_bytes_copied_total",
		"redirt_entries_pruned_total",
		"redirt_errors_total",
	} {
		assert.Contains(t, string(body), name)
	}
}

func TestServeBadAddress(t *testing.T) {
	// An unusable listen address must not panic or kill the process; the
	// failure is logged and the run continues.
	Serve("256.256.256.256:1")
	time.Sleep(50 * time.Millisecond)
}
