package simpro

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"jobcard-automation/internal/gateway"
	"jobcard-automation/internal/model"
	"jobcard-automation/pkg/datemath"
)

const (
	defaultPageSize = 250
	maxPages        = 200
	jobListColumns  = "ID,Name,Stage,Status,Tags,CompletedDate,DateCompleted,ConvertedFromQuote,Site,Customer"
)

func (g *implGateway) GetJob(ctx context.Context, jobID string) (model.JobLinkInfo, error) {
	if jobID == "" {
		return model.JobLinkInfo{}, gateway.ErrInvalidJobID
	}

	resp, err := g.client.Get(ctx, jobPath(jobID), nil)
	if err != nil {
		return model.JobLinkInfo{}, err
	}

	job := normalizeJob(resp.JSON())
	if job.JobID == "" {
		job.JobID = jobID
	}
	job.Raw = resp.Body
	return job, nil
}

func (g *implGateway) ListJobsByTag(ctx context.Context, opt gateway.ListJobsOptions) ([]model.JobLinkInfo, error) {
	if opt.TagID <= 0 {
		return nil, gateway.ErrInvalidTagID
	}
	pageSize := opt.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var jobs []model.JobLinkInfo
	for page := 1; page <= maxPages; page++ {
		q := url.Values{}
		q.Set("Tags", strconv.Itoa(opt.TagID))
		q.Set("page", strconv.Itoa(page))
		q.Set("pageSize", strconv.Itoa(pageSize))
		q.Set("columns", jobListColumns)

		resp, err := g.client.Get(ctx, "/jobs/", q)
		if err != nil {
			return nil, fmt.Errorf("list jobs page %d: %w", page, err)
		}

		items := asArray(resp.JSON())
		for _, item := range items {
			job := normalizeJob(item)
			if job.JobID == "" {
				continue
			}
			// The tag filter is not honoured by every deployment, so the
			// requested Tags column decides. An empty list means untagged.
			if !job.HasTag(opt.TagID) {
				continue
			}
			jobs = append(jobs, job)
		}

		if pages, err := strconv.Atoi(resp.Header.Get("Result-Pages")); err == nil {
			if page >= pages {
				break
			}
			continue
		}
		if len(items) < pageSize {
			break
		}
	}

	return jobs, nil
}

// normalizeJob maps any observed job shape onto JobLinkInfo.
func normalizeJob(res gjson.Result) model.JobLinkInfo {
	job := model.JobLinkInfo{
		JobID:        firstString(res, jobIDPaths...),
		JobNumber:    firstString(res, jobNumberPaths...),
		QuoteID:      firstString(res, jobQuotePaths...),
		TagIDs:       tagIDs(res),
		StatusID:     firstInt(res, jobStatusIDPaths...),
		StatusName:   firstString(res, jobStatusPaths...),
		Stage:        firstString(res, jobStagePaths...),
		SiteName:     firstString(res, jobSitePaths...),
		CustomerName: firstString(res, jobCustomerPaths...),
	}
	if job.QuoteID == "0" {
		job.QuoteID = ""
	}

	for _, raw := range allStrings(res, jobCompletedPaths...) {
		if d, ok := datemath.ParseDate(raw); ok {
			job.CompletedDate = &d
			break
		}
	}

	return job
}

// tagIDs accepts tags as objects ({ID, Name}), bare numbers or numeric strings.
func tagIDs(res gjson.Result) []int {
	var ids []int
	for _, t := range firstArray(res, jobTagsPaths...) {
		if t.IsObject() {
			ids = append(ids, firstInt(t, tagIDPaths...))
			continue
		}
		ids = append(ids, toInt(t))
	}
	return model.NormalizeTagIDs(ids)
}

func jobPath(jobID string) string {
	return "/jobs/" + url.PathEscape(jobID)
}
