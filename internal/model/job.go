package model

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// JobLinkInfo is the normalized view of a Simpro job, fetched fresh per reconciliation.
type JobLinkInfo struct {
	JobID         string          `json:"job_id"`
	JobNumber     string          `json:"job_number,omitempty"`
	QuoteID       string          `json:"quote_id,omitempty"` // empty when the job did not originate from a quote
	TagIDs        []int           `json:"tag_ids"`
	StatusID      int             `json:"status_id,omitempty"`
	StatusName    string          `json:"status_name,omitempty"`
	Stage         string          `json:"stage,omitempty"`
	SiteName      string          `json:"site_name,omitempty"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CompletedDate *time.Time      `json:"completed_date,omitempty"` // calendar date, UTC; nil when unresolvable
	Raw           json.RawMessage `json:"-"`
}

// HasQuote reports whether the job links to an originating quote.
func (j JobLinkInfo) HasQuote() bool {
	return j.QuoteID != ""
}

// HasTag reports whether tagID is attached to the job.
func (j JobLinkInfo) HasTag(tagID int) bool {
	for _, id := range j.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// IsCompleted reports whether the job reached a completed workflow state,
// by status code, stage or status name.
func (j JobLinkInfo) IsCompleted() bool {
	if j.StatusID == StatusCompleted || j.StatusID == StatusCompletedChecked {
		return true
	}
	switch strings.ToLower(j.Stage) {
	case "complete", "completed", "invoiced", "archived":
		return true
	}
	return strings.Contains(strings.ToLower(j.StatusName), "complete")
}

// DisplayNumber is the job number shown to staff, falling back to the id.
func (j JobLinkInfo) DisplayNumber() string {
	if j.JobNumber != "" {
		return j.JobNumber
	}
	return j.JobID
}

// NormalizeTagIDs sorts and de-duplicates ids.
func NormalizeTagIDs(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
