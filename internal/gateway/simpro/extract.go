package simpro

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Extraction attempts for each normalized field, tried in order. The ERP
// mixes PascalCase and camelCase and nests references differently per endpoint.
var (
	jobIDPaths        = []string{"ID", "Id", "id", "JobID", "jobId"}
	jobNumberPaths    = []string{"JobNo", "JobNumber", "Number", "jobNumber"}
	jobQuotePaths     = []string{"ConvertedFromQuote.ID", "ConvertedFrom.ID", "Quote.ID", "QuoteID", "quoteId", "quote.id"}
	jobTagsPaths      = []string{"Tags", "tags"}
	jobCompletedPaths = []string{"CompletedDate", "DateCompleted", "completedDate", "dateCompleted"}
	jobStatusIDPaths  = []string{"Status.ID", "StatusID", "status.id", "statusId"}
	jobStatusPaths    = []string{"Status.Name", "StatusName", "status.name"}
	jobStagePaths     = []string{"Stage", "stage"}
	jobSitePaths      = []string{"Site.Name", "SiteName", "site.name"}
	jobCustomerPaths  = []string{"Customer.CompanyName", "Customer.Name", "CustomerName", "customer.name"}

	quoteIDPaths       = []string{"ID", "Id", "id", "QuoteID"}
	quoteNumberPaths   = []string{"QuoteNo", "QuoteNumber", "Number", "quoteNumber"}
	quoteCustomerPaths = []string{"Customer.CompanyName", "Customer.Name", "CustomerName", "customer.name"}
	quoteFieldsPaths   = []string{"CustomFields", "customFields"}

	fieldIDPaths    = []string{"CustomField.ID", "ID", "Id", "id", "customField.id"}
	fieldNamePaths  = []string{"CustomField.Name", "Name", "name", "customField.name"}
	fieldValuePaths = []string{"Value", "value"}

	tagIDPaths = []string{"ID", "Id", "id", "TagID"}

	taskIDPaths      = []string{"ID", "Id", "id"}
	taskSubjectPaths = []string{"Subject", "Name", "subject", "name"}
	taskDescPaths    = []string{"Description", "Notes", "description", "notes"}
	taskDuePaths     = []string{"DueDate", "dueDate", "Due"}

	noteIDPaths   = []string{"ID", "Id", "id"}
	noteBodyPaths = []string{"Note", "Body", "Subject", "note", "body", "subject"}
)

// firstString returns the first non-empty value found at paths. Numbers are
// rendered without exponent so numeric ids compare equal to their string form.
func firstString(res gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := res.Get(p)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if s := scalarString(v); s != "" {
			return s
		}
	}
	return ""
}

// firstInt returns the first value at paths that parses as a positive integer.
func firstInt(res gjson.Result, paths ...string) int {
	for _, p := range paths {
		if n := toInt(res.Get(p)); n > 0 {
			return n
		}
	}
	return 0
}

// firstArray returns the first array found at paths.
func firstArray(res gjson.Result, paths ...string) []gjson.Result {
	for _, p := range paths {
		v := res.Get(p)
		if v.IsArray() {
			return v.Array()
		}
	}
	return nil
}

// allStrings returns every non-empty value found at paths, in order.
func allStrings(res gjson.Result, paths ...string) []string {
	var out []string
	for _, p := range paths {
		if s := scalarString(res.Get(p)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func scalarString(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str)
	case gjson.Number:
		if v.Num == float64(int64(v.Num)) {
			return strconv.FormatInt(int64(v.Num), 10)
		}
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	default:
		return ""
	}
}

func toInt(v gjson.Result) int {
	switch v.Type {
	case gjson.Number:
		return int(v.Int())
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// asArray returns the elements of an array result and nil for anything else.
// gjson wraps a non-array value in a one-element slice, which list endpoints
// must not mistake for a record.
func asArray(res gjson.Result) []gjson.Result {
	if !res.IsArray() {
		return nil
	}
	return res.Array()
}
