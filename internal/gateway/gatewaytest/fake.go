// Package gatewaytest provides an in-memory gateway.Gateway for tests.
package gatewaytest

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"jobcard-automation/internal/gateway"
	"jobcard-automation/internal/model"
	pkgSimpro "jobcard-automation/pkg/simpro"
)

// Fake records every mutating call and serves jobs and quotes from memory.
// It is safe for concurrent use.
type Fake struct {
	mu sync.Mutex

	jobs   map[string]model.JobLinkInfo
	quotes map[string]model.QuoteAutomationView
	tasks  []model.Task
	notes  map[string][]model.Note

	errs map[string]error // injected failures by method name

	TagCalls  []TagCall
	TaskCalls []gateway.CreateTaskOptions
	NoteCalls []gateway.CreateNoteOptions
	Reads     map[string]int
}

// TagCall is one mutating tag attachment.
type TagCall struct {
	JobID string
	TagID int
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		jobs:   map[string]model.JobLinkInfo{},
		quotes: map[string]model.QuoteAutomationView{},
		notes:  map[string][]model.Note{},
		errs:   map[string]error{},
		Reads:  map[string]int{},
	}
}

// PutJob stores or replaces a job.
func (f *Fake) PutJob(job model.JobLinkInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job.TagIDs = model.NormalizeTagIDs(job.TagIDs)
	f.jobs[job.JobID] = job
}

// PutQuote stores or replaces a quote.
func (f *Fake) PutQuote(q model.QuoteAutomationView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotes[q.QuoteID] = q
}

// PutTask stores a pre-existing task.
func (f *Fake) PutTask(t model.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = strconv.Itoa(len(f.tasks) + 1)
	}
	f.tasks = append(f.tasks, t)
}

// FailOn makes op (a Gateway method name) return err until cleared with nil.
func (f *Fake) FailOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

// Job returns the stored job.
func (f *Fake) Job(jobID string) (model.JobLinkInfo, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	return job, ok
}

// Tasks returns a copy of every stored task.
func (f *Fake) Tasks() []model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Task(nil), f.tasks...)
}

// Notes returns a copy of the notes on a job.
func (f *Fake) Notes(jobID string) []model.Note {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Note(nil), f.notes[jobID]...)
}

// Counts returns the number of tag, task and note mutations.
func (f *Fake) Counts() (tags, tasks, notes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.TagCalls), len(f.TaskCalls), len(f.NoteCalls)
}

// ReadCount returns how many times op was called.
func (f *Fake) ReadCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Reads[op]
}

func (f *Fake) fail(op string) error {
	f.Reads[op]++
	return f.errs[op]
}

func notFound(method, path string) error {
	return &pkgSimpro.APIError{Method: method, Path: path, StatusCode: 404, Body: `{"message":"not found"}`}
}

func (f *Fake) GetJob(ctx context.Context, jobID string) (model.JobLinkInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GetJob"); err != nil {
		return model.JobLinkInfo{}, err
	}
	if jobID == "" {
		return model.JobLinkInfo{}, gateway.ErrInvalidJobID
	}
	job, ok := f.jobs[jobID]
	if !ok {
		return model.JobLinkInfo{}, notFound("GET", "/jobs/"+jobID)
	}
	job.TagIDs = append([]int(nil), job.TagIDs...)
	return job, nil
}

func (f *Fake) GetQuote(ctx context.Context, quoteID string) (model.QuoteAutomationView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GetQuote"); err != nil {
		return model.QuoteAutomationView{}, err
	}
	if quoteID == "" {
		return model.QuoteAutomationView{}, gateway.ErrInvalidQuoteID
	}
	q, ok := f.quotes[quoteID]
	if !ok {
		return model.QuoteAutomationView{}, notFound("GET", "/quotes/"+quoteID)
	}
	q.CustomFields = append([]model.CustomField(nil), q.CustomFields...)
	return q, nil
}

func (f *Fake) EnsureJobTag(ctx context.Context, jobID string, tagID int) (gateway.EnsureTagResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("EnsureJobTag"); err != nil {
		return gateway.EnsureTagResult{}, err
	}
	if tagID <= 0 {
		return gateway.EnsureTagResult{}, gateway.ErrInvalidTagID
	}
	job, ok := f.jobs[jobID]
	if !ok {
		return gateway.EnsureTagResult{}, notFound("GET", "/jobs/"+jobID)
	}
	if job.HasTag(tagID) {
		return gateway.EnsureTagResult{AlreadyPresent: true}, nil
	}
	job.TagIDs = model.NormalizeTagIDs(append(job.TagIDs, tagID))
	f.jobs[jobID] = job
	f.TagCalls = append(f.TagCalls, TagCall{JobID: jobID, TagID: tagID})
	return gateway.EnsureTagResult{}, nil
}

func (f *Fake) CreateTask(ctx context.Context, opt gateway.CreateTaskOptions) (model.TaskRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateTask"); err != nil {
		return model.TaskRef{}, err
	}
	if strings.TrimSpace(opt.Subject) == "" {
		return model.TaskRef{}, gateway.ErrEmptySubject
	}
	id := strconv.Itoa(len(f.tasks) + 1)
	f.tasks = append(f.tasks, model.Task{
		ID:           id,
		Subject:      opt.Subject,
		Description:  opt.Description,
		DueDate:      opt.DueDate,
		AssignedToID: opt.AssigneeID,
	})
	f.TaskCalls = append(f.TaskCalls, opt)
	return model.TaskRef{ID: id, Endpoint: "/tasks/"}, nil
}

func (f *Fake) FindTasksBySubject(ctx context.Context, subject string) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("FindTasksBySubject"); err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(subject))
	if needle == "" {
		return nil, gateway.ErrEmptySubject
	}
	var out []model.Task
	for _, t := range f.tasks {
		if strings.Contains(strings.ToLower(t.Subject), needle) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *Fake) CreateNoteOnce(ctx context.Context, opt gateway.CreateNoteOptions) (gateway.CreateNoteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateNoteOnce"); err != nil {
		return gateway.CreateNoteResult{}, err
	}
	if opt.JobID == "" {
		return gateway.CreateNoteResult{}, gateway.ErrInvalidJobID
	}
	if strings.TrimSpace(opt.MarkerToken) == "" {
		return gateway.CreateNoteResult{}, gateway.ErrEmptyMarker
	}
	for _, n := range f.notes[opt.JobID] {
		if strings.Contains(n.Body, opt.MarkerToken) {
			return gateway.CreateNoteResult{NoteID: n.ID}, nil
		}
	}
	body := opt.Body
	if !strings.Contains(body, opt.MarkerToken) {
		body += "\n\n" + opt.MarkerToken
	}
	id := fmt.Sprintf("%s-%d", opt.JobID, len(f.notes[opt.JobID])+1)
	f.notes[opt.JobID] = append(f.notes[opt.JobID], model.Note{ID: id, Body: body})
	f.NoteCalls = append(f.NoteCalls, opt)
	return gateway.CreateNoteResult{Created: true, NoteID: id}, nil
}

func (f *Fake) ListJobsByTag(ctx context.Context, opt gateway.ListJobsOptions) ([]model.JobLinkInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ListJobsByTag"); err != nil {
		return nil, err
	}
	if opt.TagID <= 0 {
		return nil, gateway.ErrInvalidTagID
	}
	ids := make([]int, 0, len(f.jobs))
	byNum := map[int]string{}
	var others []string
	for id := range f.jobs {
		if n, err := strconv.Atoi(id); err == nil {
			ids = append(ids, n)
			byNum[n] = id
			continue
		}
		others = append(others, id)
	}
	slices.Sort(ids)
	slices.Sort(others)
	ordered := make([]string, 0, len(f.jobs))
	for _, n := range ids {
		ordered = append(ordered, byNum[n])
	}
	ordered = append(ordered, others...)

	var out []model.JobLinkInfo
	for _, id := range ordered {
		if job := f.jobs[id]; job.HasTag(opt.TagID) {
			out = append(out, job)
		}
	}
	return out, nil
}
