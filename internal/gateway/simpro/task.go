package simpro

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"jobcard-automation/internal/gateway"
	"jobcard-automation/internal/model"
	"jobcard-automation/pkg/datemath"
	"jobcard-automation/pkg/fallback"
)

// taskShape builds one candidate request body for task creation.
type taskShape struct {
	name  string
	build func(opt gateway.CreateTaskOptions) map[string]any
}

// taskShapes are tried in order at every endpoint. The first is the
// documented schema, the rest are shapes accepted by older builds.
var taskShapes = []taskShape{
	{
		name: "Subject/Description/Staff",
		build: func(opt gateway.CreateTaskOptions) map[string]any {
			body := map[string]any{
				"Subject":     opt.Subject,
				"Description": opt.Description,
				"DueDate":     datemath.FormatDate(opt.DueDate),
			}
			if opt.AssigneeID > 0 {
				body["Staff"] = opt.AssigneeID
			}
			return body
		},
	},
	{
		name: "Name/Notes/AssignedTo",
		build: func(opt gateway.CreateTaskOptions) map[string]any {
			body := map[string]any{
				"Name":    opt.Subject,
				"Notes":   opt.Description,
				"DueDate": datemath.FormatDate(opt.DueDate),
			}
			if opt.AssigneeID > 0 {
				body["AssignedTo"] = opt.AssigneeID
			}
			return body
		},
	},
	{
		name: "Subject/Notes/Assignees",
		build: func(opt gateway.CreateTaskOptions) map[string]any {
			body := map[string]any{
				"Subject": opt.Subject,
				"Notes":   opt.Description,
				"DueDate": datemath.FormatDate(opt.DueDate),
			}
			if opt.AssigneeID > 0 {
				body["Assignees"] = []int{opt.AssigneeID}
			}
			return body
		},
	},
}

func (g *implGateway) CreateTask(ctx context.Context, opt gateway.CreateTaskOptions) (model.TaskRef, error) {
	if strings.TrimSpace(opt.Subject) == "" {
		return model.TaskRef{}, gateway.ErrEmptySubject
	}

	endpoints := []string{"/tasks/"}
	if opt.QuoteID != "" {
		endpoints = append(endpoints, "/quotes/"+url.PathEscape(opt.QuoteID)+"/tasks/")
	}

	var candidates []fallback.Candidate[model.TaskRef]
	for _, endpoint := range endpoints {
		for _, shape := range taskShapes {
			endpoint, shape := endpoint, shape
			candidates = append(candidates, fallback.Candidate[model.TaskRef]{
				Name: endpoint + " " + shape.name,
				Try: func(ctx context.Context) (model.TaskRef, error) {
					resp, err := g.client.Post(ctx, endpoint, shape.build(opt))
					if err != nil {
						return model.TaskRef{}, stopOnAuth(err)
					}
					return model.TaskRef{
						ID:       firstString(resp.JSON(), taskIDPaths...),
						Endpoint: endpoint,
					}, nil
				},
			})
		}
	}

	ref, idx, err := fallback.TryInOrder(ctx, "create task", candidates)
	if err != nil {
		return model.TaskRef{}, err
	}

	g.l.Infof(ctx, "internal.gateway.simpro.CreateTask: created task %q id=%s via %s", opt.Subject, ref.ID, candidates[idx].Name)
	return ref, nil
}

func (g *implGateway) FindTasksBySubject(ctx context.Context, subject string) ([]model.Task, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, gateway.ErrEmptySubject
	}

	search := func(name string, filter url.Values) fallback.Candidate[[]gjson.Result] {
		return fallback.Candidate[[]gjson.Result]{
			Name: name,
			Try: func(ctx context.Context) ([]gjson.Result, error) {
				return g.searchTaskPages(ctx, filter)
			},
		}
	}

	items, _, err := fallback.TryInOrder(ctx, "search tasks", []fallback.Candidate[[]gjson.Result]{
		search("Subject filter", url.Values{"Subject": {"%" + subject + "%"}}),
		search("search param", url.Values{"search": {subject}}),
	})
	if err != nil {
		return nil, err
	}

	// Filters are loose on some builds; the substring check is authoritative.
	needle := strings.ToLower(subject)
	var tasks []model.Task
	for _, item := range items {
		t := normalizeTask(item)
		if strings.Contains(strings.ToLower(t.Subject), needle) {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// searchTaskPages reads every result page of a task search.
func (g *implGateway) searchTaskPages(ctx context.Context, filter url.Values) ([]gjson.Result, error) {
	var items []gjson.Result
	for page := 1; page <= maxPages; page++ {
		q := url.Values{}
		for k, v := range filter {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("pageSize", strconv.Itoa(defaultPageSize))

		resp, err := g.client.Get(ctx, "/tasks/", q)
		if err != nil {
			if page > 1 {
				return nil, fallback.Permanent(fmt.Errorf("search tasks page %d: %w", page, err))
			}
			return nil, stopOnAuth(err)
		}

		batch := asArray(resp.JSON())
		items = append(items, batch...)

		if pages, err := strconv.Atoi(resp.Header.Get("Result-Pages")); err == nil {
			if page >= pages {
				break
			}
			continue
		}
		if len(batch) < defaultPageSize {
			break
		}
	}
	return items, nil
}

func normalizeTask(res gjson.Result) model.Task {
	t := model.Task{
		ID:           firstString(res, taskIDPaths...),
		Subject:      firstString(res, taskSubjectPaths...),
		Description:  firstString(res, taskDescPaths...),
		AssignedToID: firstInt(res, "Staff.ID", "Staff", "AssignedTo.ID", "AssignedTo"),
	}
	if d, ok := datemath.ParseDate(firstString(res, taskDuePaths...)); ok {
		t.DueDate = d
	}
	return t
}
