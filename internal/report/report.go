// Package report prints the expanded text ads of a customer.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"adsreport-cli/internal/api"

	"github.com/sirupsen/logrus"
)

const (
	DefaultPageSize = 1000

	ExitSuccess = 0
	ExitFailure = 1
)

const baseQuery = "SELECT ad_group.id, ad_group_ad.ad.id, " +
	"ad_group_ad.ad.expanded_text_ad.headline_part1, " +
	"ad_group_ad.ad.expanded_text_ad.headline_part2, " +
	"ad_group_ad.status FROM ad_group_ad " +
	"WHERE ad_group_ad.ad.type = EXPANDED_TEXT_AD"

// QueryExecutor runs a GAQL query and yields the matching rows lazily.
type QueryExecutor interface {
	Search(ctx context.Context, customerID, query string, pageSize int) iter.Seq2[api.Row, error]
}

type Options struct {
	CustomerID string
	PageSize   int
	AdGroupID  string
}

// Reporter writes one line per expanded text ad to Out.
type Reporter struct {
	Exec QueryExecutor
	Out  io.Writer
	Log  logrus.FieldLogger
}

func New(exec QueryExecutor, out io.Writer, log logrus.FieldLogger) *Reporter {
	return &Reporter{Exec: exec, Out: out, Log: log}
}

// BuildQuery returns the report query, restricted to adGroupID when it is set.
func BuildQuery(adGroupID string) string {
	if adGroupID == "" {
		return baseQuery
	}
	return fmt.Sprintf("%s AND ad_group.id = %s", baseQuery, adGroupID)
}

// Run executes the report and returns the process exit status. Errors that are
// not a *api.GoogleAdsError are returned as-is for the caller to handle.
func (r *Reporter) Run(ctx context.Context, opts Options) (int, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	query := BuildQuery(opts.AdGroupID)
	log := r.Log.WithFields(logrus.Fields{"customer_id": opts.CustomerID, "page_size": pageSize})
	log.WithField("query", query).Debug("running search")

	var printed, skipped int
	for row, err := range r.Exec.Search(ctx, opts.CustomerID, query, pageSize) {
		if err != nil {
			var gerr *api.GoogleAdsError
			if errors.As(err, &gerr) {
				WriteFailure(r.Out, gerr)
				return ExitCode(err), nil
			}
			return ExitFailure, err
		}
		if !WriteRow(r.Out, row) {
			skipped++
			logSkipped(log, row.AdGroupAd.Ad)
			continue
		}
		printed++
	}

	log.WithFields(logrus.Fields{"printed": printed, "skipped": skipped}).Debug("search finished")
	return ExitSuccess, nil
}

func logSkipped(log logrus.FieldLogger, ad api.Ad) {
	entry := log.WithFields(logrus.Fields{"ad_id": ad.ID, "ad_type": ad.Type})
	if rsa, ok := ad.ResponsiveSearch(); ok {
		entry = entry.WithField("headlines", len(rsa.Headlines))
	}
	entry.Debug("skipping row without expanded text ad")
}

// WriteRow prints row if it carries an expanded text ad and reports whether it did.
func WriteRow(w io.Writer, row api.Row) bool {
	eta, ok := row.AdGroupAd.Ad.ExpandedText()
	if !ok {
		return false
	}
	fmt.Fprintf(w, "Expanded text ad with ID %d, status %s, and headline %s - %s was found in ad group with ID %d.\n",
		row.AdGroupAd.Ad.ID, row.AdGroupAd.Status, eta.HeadlinePart1, eta.HeadlinePart2, row.AdGroup.ID)
	return true
}

// WriteFailure prints the request id, status and every contained error with
// its field path.
func WriteFailure(w io.Writer, gerr *api.GoogleAdsError) {
	fmt.Fprintf(w, "Request with ID \"%s\" failed with status \"%s\" and includes the following errors:\n", gerr.RequestID, gerr.Status)
	for _, e := range gerr.Errors {
		fmt.Fprintf(w, "\tError with message \"%s\".\n", e.Message)
		if e.Location == nil {
			continue
		}
		for _, el := range e.Location.FieldPathElements {
			fmt.Fprintf(w, "\t\tOn field: %s\n", el.FieldName)
		}
	}
}

// ExitCode maps a run error to a process status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}
