package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"jobcard-automation/internal/gateway/gatewaytest"
	"jobcard-automation/internal/idempotency"
	"jobcard-automation/internal/model"
	"jobcard-automation/internal/reconcile"
	"jobcard-automation/internal/renewal"
	"jobcard-automation/pkg/datemath"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

type busyRunner struct{}

func (busyRunner) Run(ctx context.Context, input renewal.RunInput) (renewal.RunReport, error) {
	return renewal.RunReport{}, renewal.ErrRunnerBusy
}

type envelope struct {
	ErrorCode int             `json:"error_code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

type testEnv struct {
	fake   *gatewaytest.Fake
	router *gin.Engine
}

func completedAt(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newTestEnv(t *testing.T, runner renewal.UseCase) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := gatewaytest.New()
	stores, err := idempotency.NewStores(context.Background(), idempotency.Config{Capacity: 100})
	if err != nil {
		t.Fatalf("NewStores: %v", err)
	}
	l := &mockLogger{}
	engine, err := reconcile.New(fake, stores, reconcile.Config{
		TriggerFieldID:   "73",
		TriggerFieldName: "Maintenance Contract",
		YesValue:         "YES",
		AssigneeID:       5,
		MaintenanceTagID: 256,
	}, l)
	if err != nil {
		t.Fatalf("reconcile.New: %v", err)
	}
	if runner == nil {
		runner = renewal.New(fake, renewal.Config{TagID: 256, AssigneeID: 5, Location: time.UTC}, l)
	}
	dates, err := datemath.NewParser("UTC")
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1/admin"), New(l, fake, engine, runner, stores, dates, 5))
	return testEnv{fake: fake, router: r}
}

func (e testEnv) do(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal %s: %v", w.Body.String(), err)
	}
	return w.Code, env
}

func TestHandleCreateTask(t *testing.T) {
	env := newTestEnv(t, nil)
	body := `{"subject":"Call Acme about filters","due_date":"2026-02-01","assignee_id":9}`

	code, resp := env.do(t, http.MethodPost, "/api/v1/admin/tasks", body)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", code, resp.Message)
	}
	var out CreateTaskResponse
	json.Unmarshal(resp.Data, &out)
	if !out.Created || out.Duplicate || out.TaskID == "" {
		t.Errorf("unexpected first response: %+v", out)
	}
	if out.DueDate.String() != "2026-02-01" {
		t.Errorf("expected due 2026-02-01, got %s", out.DueDate)
	}

	tasks := env.fake.Tasks()
	if len(tasks) != 1 || tasks[0].AssignedToID != 9 {
		t.Fatalf("expected one task assigned to 9, got %+v", tasks)
	}

	t.Run("Repeat Is Duplicate", func(t *testing.T) {
		code, resp := env.do(t, http.MethodPost, "/api/v1/admin/tasks", body)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		var out CreateTaskResponse
		json.Unmarshal(resp.Data, &out)
		if !out.Duplicate || out.Created {
			t.Errorf("expected duplicate, got %+v", out)
		}
		if _, n, _ := env.fake.Counts(); n != 1 {
			t.Errorf("expected 1 task creation, got %d", n)
		}
	})

	t.Run("Existing Subject Different Date", func(t *testing.T) {
		code, resp := env.do(t, http.MethodPost, "/api/v1/admin/tasks", `{"subject":"Call Acme about filters","due_date":"2026-02-02"}`)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		var out CreateTaskResponse
		json.Unmarshal(resp.Data, &out)
		if out.Created || out.Duplicate || len(out.Existing) != 1 {
			t.Errorf("expected existing task reported, got %+v", out)
		}
	})

	t.Run("Default Assignee", func(t *testing.T) {
		env.do(t, http.MethodPost, "/api/v1/admin/tasks", `{"subject":"Order parts","due_date":"2026-02-01"}`)
		tasks := env.fake.Tasks()
		last := tasks[len(tasks)-1]
		if last.Subject != "Order parts" || last.AssignedToID != 5 {
			t.Errorf("expected default assignee 5, got %+v", last)
		}
	})

	t.Run("Missing Subject", func(t *testing.T) {
		code, _ := env.do(t, http.MethodPost, "/api/v1/admin/tasks", `{"due_date":"2026-02-01"}`)
		if code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", code)
		}
	})

	t.Run("Invalid Date", func(t *testing.T) {
		code, _ := env.do(t, http.MethodPost, "/api/v1/admin/tasks", `{"subject":"x","due_date":"someday"}`)
		if code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", code)
		}
	})
}

func TestHandlePreviewTrigger(t *testing.T) {
	env := newTestEnv(t, nil)
	env.fake.PutQuote(model.QuoteAutomationView{
		QuoteID:      "999",
		QuoteNumber:  "Q-17",
		CustomFields: []model.CustomField{{ID: "73", Name: "Maintenance Contract", Value: " yes "}},
	})

	t.Run("Matched", func(t *testing.T) {
		code, resp := env.do(t, http.MethodGet, "/api/v1/admin/quotes/999/trigger", "")
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		var preview reconcile.TriggerPreview
		json.Unmarshal(resp.Data, &preview)
		if !preview.Matched || preview.MatchedField == nil || preview.MatchedField.ID != "73" {
			t.Errorf("expected match on field 73, got %+v", preview)
		}
		if _, tasks, notes := env.fake.Counts(); tasks != 0 || notes != 0 {
			t.Errorf("preview must not mutate, got tasks=%d notes=%d", tasks, notes)
		}
	})

	t.Run("Unknown Quote", func(t *testing.T) {
		code, resp := env.do(t, http.MethodGet, "/api/v1/admin/quotes/404/trigger", "")
		if code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", code)
		}
		var data map[string]any
		json.Unmarshal(resp.Data, &data)
		if data["upstream_status"] != float64(http.StatusNotFound) {
			t.Errorf("expected upstream_status 404, got %v", data)
		}
	})
}

func TestHandleRunRenewals(t *testing.T) {
	env := newTestEnv(t, nil)
	env.fake.PutJob(model.JobLinkInfo{JobID: "123", TagIDs: []int{256}, StatusID: 12, CompletedDate: completedAt(2025, 3, 15)})

	t.Run("Dry Run", func(t *testing.T) {
		code, resp := env.do(t, http.MethodPost, "/api/v1/admin/renewals/run", `{"today":"2026-01-15","dry_run":true}`)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", code, resp.Message)
		}
		var report renewal.RunReport
		json.Unmarshal(resp.Data, &report)
		if !report.DryRun || len(report.Actions) != 1 || report.Actions[0].Executed {
			t.Errorf("unexpected report: %+v", report)
		}
		if _, tasks, _ := env.fake.Counts(); tasks != 0 {
			t.Errorf("dry run created %d tasks", tasks)
		}
	})

	t.Run("Live", func(t *testing.T) {
		code, resp := env.do(t, http.MethodPost, "/api/v1/admin/renewals/run", `{"today":"2026-01-15"}`)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		var report renewal.RunReport
		json.Unmarshal(resp.Data, &report)
		if len(report.Actions) != 1 || !report.Actions[0].Created {
			t.Errorf("unexpected report: %+v", report)
		}
	})

	t.Run("Invalid Today", func(t *testing.T) {
		code, _ := env.do(t, http.MethodPost, "/api/v1/admin/renewals/run", `{"today":"next blue moon"}`)
		if code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", code)
		}
	})

	t.Run("Busy", func(t *testing.T) {
		busy := newTestEnv(t, busyRunner{})
		code, _ := busy.do(t, http.MethodPost, "/api/v1/admin/renewals/run", "")
		if code != http.StatusConflict {
			t.Errorf("expected 409, got %d", code)
		}
	})
}

func TestHandleReconcileJob(t *testing.T) {
	env := newTestEnv(t, nil)
	env.fake.PutJob(model.JobLinkInfo{JobID: "123", TagIDs: []int{256}, StatusID: 12, CompletedDate: completedAt(2025, 3, 15)})

	code, resp := env.do(t, http.MethodPost, "/api/v1/admin/jobs/123/reconcile", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", code, resp.Message)
	}
	var out reconcile.HandleOutput
	json.Unmarshal(resp.Data, &out)
	if out.JobID != "123" {
		t.Errorf("expected job 123, got %+v", out)
	}
	tasks := env.fake.Tasks()
	if len(tasks) != 1 || tasks[0].Subject != "Maintenance start: Job #123 (2025-03-15)" {
		t.Errorf("expected completion task, got %+v", tasks)
	}

	t.Run("Unknown Job", func(t *testing.T) {
		code, _ := env.do(t, http.MethodPost, "/api/v1/admin/jobs/777/reconcile", "")
		if code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", code)
		}
	})

	t.Run("Bad Status Query", func(t *testing.T) {
		code, _ := env.do(t, http.MethodPost, "/api/v1/admin/jobs/123/reconcile?status_id=abc", "")
		if code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", code)
		}
	})
}

func TestHandleIdempotencyStats(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodPost, "/api/v1/admin/tasks", `{"subject":"Order parts","due_date":"2026-02-01"}`)

	code, resp := env.do(t, http.MethodGet, "/api/v1/admin/idempotency/stats", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	var stats struct {
		Sets map[string]int `json:"sets"`
		At   string         `json:"at"`
	}
	json.Unmarshal(resp.Data, &stats)
	if stats.At == "" {
		t.Error("expected at timestamp")
	}
	if stats.Sets[idempotency.SetManual] != 1 {
		t.Errorf("expected 1 manual key, got %v", stats.Sets)
	}
	if _, ok := stats.Sets[idempotency.SetEvents]; !ok {
		t.Errorf("expected events set in %v", stats.Sets)
	}
}
