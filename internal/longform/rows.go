// Package longform holds the long-form project domain: the fixed 14-row
// work sheet, the completeness rules that gate the generate and compile
// actions, the process-wide job lock, and the row dispatch sequencer.
package longform

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrRowCount rejects sheet writes that are not exactly ProjectRowCount rows.
var ErrRowCount = errors.New("wrong row count")

// ProjectRowCount is the fixed size of a project's row sheet. Projects are
// created with this many placeholder rows and never grow or shrink.
const ProjectRowCount = 14

type RowStatus string

const (
	RowIncomplete RowStatus = "incomplete"
	RowComplete   RowStatus = "complete"
)

// Row is one unit of work: an audio URL plus an image URL, tracked to
// completion. Status is authoritative state set by whichever writer last
// changed it, not derived on read.
type Row struct {
	SerialNumber int       `json:"serial_number"`
	AudioURL     string    `json:"audio_url"`
	ImageURL     string    `json:"image_url"`
	Status       RowStatus `json:"status"`
}

// Project is a named container of exactly ProjectRowCount rows.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EmptyRows returns the placeholder sheet a new project starts with.
func EmptyRows() []Row {
	rows := make([]Row, ProjectRowCount)
	for i := range rows {
		rows[i] = Row{SerialNumber: i + 1, Status: RowIncomplete}
	}
	return rows
}

// PadRows normalizes an arbitrary persisted row set into exactly
// ProjectRowCount rows ordered by serial number 1..14. Short sets are padded
// with placeholders, long sets are truncated, and serial numbers are
// reassigned from position so storage quirks never leak to callers.
func PadRows(rows []Row) []Row {
	out := EmptyRows()
	for i := range out {
		if i >= len(rows) {
			break
		}
		r := rows[i]
		out[i].AudioURL = strings.TrimSpace(r.AudioURL)
		out[i].ImageURL = strings.TrimSpace(r.ImageURL)
		out[i].Status = normalizeStatus(r.Status)
	}
	return out
}

// NormalizeRows validates a full-sheet write. The row count must be exact;
// everything else is normalized rather than rejected, matching how the sheet
// is edited (the UI recomputes status client side, so unknown statuses
// collapse to incomplete rather than failing the save).
func NormalizeRows(rows []Row) ([]Row, error) {
	if len(rows) != ProjectRowCount {
		return nil, fmt.Errorf("%w: rows must be a list of %d row objects, got %d", ErrRowCount, ProjectRowCount, len(rows))
	}
	out := make([]Row, ProjectRowCount)
	for i, r := range rows {
		out[i] = Row{
			SerialNumber: i + 1,
			AudioURL:     strings.TrimSpace(r.AudioURL),
			ImageURL:     strings.TrimSpace(r.ImageURL),
			Status:       normalizeStatus(r.Status),
		}
	}
	return out, nil
}

func normalizeStatus(s RowStatus) RowStatus {
	switch RowStatus(strings.ToLower(strings.TrimSpace(string(s)))) {
	case RowComplete:
		return RowComplete
	default:
		return RowIncomplete
	}
}

// ValidMediaURL reports whether s parses as an absolute http(s) URL.
func ValidMediaURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// CompletableRow reports whether a row's fields qualify it for complete
// status: both URLs must be absolute http(s) URLs.
func CompletableRow(r Row) bool {
	return ValidMediaURL(r.AudioURL) && ValidMediaURL(r.ImageURL)
}

// EligibleRow reports whether the sequencer should dispatch this row:
// still incomplete, with both URL fields filled in. Rows left blank are
// skipped silently, not dispatched.
func EligibleRow(r Row) bool {
	return r.Status != RowComplete && strings.TrimSpace(r.AudioURL) != "" && strings.TrimSpace(r.ImageURL) != ""
}

// EligibleRows filters rows for dispatch, preserving serial order.
func EligibleRows(rows []Row) []Row {
	var out []Row
	for _, r := range rows {
		if EligibleRow(r) {
			out = append(out, r)
		}
	}
	return out
}

// CompileReady reports whether the compile action may run: every row of a
// full sheet must carry complete status and still hold valid media URLs.
// Status alone is not trusted here; a row edited out from under its
// complete mark must not slip through the gate.
func CompileReady(rows []Row) bool {
	if len(rows) != ProjectRowCount {
		return false
	}
	for _, r := range rows {
		if r.Status != RowComplete || !CompletableRow(r) {
			return false
		}
	}
	return true
}
