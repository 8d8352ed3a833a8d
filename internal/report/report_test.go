package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"testing"

	"adsreport-cli/internal/api"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchCall struct {
	customerID string
	query      string
	pageSize   int
}

// fakeExecutor yields rows and then err, if any.
type fakeExecutor struct {
	rows  []api.Row
	err   error
	calls []searchCall
}

func (f *fakeExecutor) Search(_ context.Context, customerID, query string, pageSize int) iter.Seq2[api.Row, error] {
	f.calls = append(f.calls, searchCall{customerID, query, pageSize})
	return func(yield func(api.Row, error) bool) {
		for _, row := range f.rows {
			if !yield(row, nil) {
				return
			}
		}
		if f.err != nil {
			yield(api.Row{}, f.err)
		}
	}
}

func expandedRow(adID, groupID int64, status, h1, h2 string) api.Row {
	return api.Row{
		AdGroup: api.AdGroup{ID: groupID},
		AdGroupAd: api.AdGroupAd{
			Status: status,
			Ad: api.Ad{
				ID:             adID,
				Type:           "EXPANDED_TEXT_AD",
				ExpandedTextAd: &api.ExpandedTextAdInfo{HeadlinePart1: h1, HeadlinePart2: h2},
			},
		},
	}
}

func newTestReporter(exec QueryExecutor) (*Reporter, *bytes.Buffer) {
	log, _ := test.NewNullLogger()
	out := &bytes.Buffer{}
	return New(exec, out, log), out
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name      string
		adGroupID string
		wantAnds  int
		wantTail  string
	}{
		{
			name:     "no ad group filter",
			wantAnds: 0,
			wantTail: "WHERE ad_group_ad.ad.type = EXPANDED_TEXT_AD",
		},
		{
			name:      "ad group filter",
			adGroupID: "55",
			wantAnds:  1,
			wantTail:  "WHERE ad_group_ad.ad.type = EXPANDED_TEXT_AD AND ad_group.id = 55",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildQuery(tt.adGroupID)
			assert.True(t, strings.HasPrefix(got, baseQuery))
			assert.True(t, strings.HasSuffix(got, tt.wantTail), got)
			assert.Equal(t, tt.wantAnds, strings.Count(got, " AND "))
		})
	}
}

func TestRunSingleRow(t *testing.T) {
	tests := []struct {
		name      string
		adGroupID string
		wantQuery string
	}{
		{
			name:      "without ad group",
			wantQuery: baseQuery,
		},
		{
			name:      "with ad group",
			adGroupID: "55",
			wantQuery: baseQuery + " AND ad_group.id = 55",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{rows: []api.Row{expandedRow(1, 55, "ENABLED", "Buy", "Now")}}
			r, out := newTestReporter(exec)

			code, err := r.Run(context.Background(), Options{CustomerID: "123-456-7890", AdGroupID: tt.adGroupID})
			require.NoError(t, err)
			assert.Equal(t, ExitSuccess, code)
			assert.Equal(t, "Expanded text ad with ID 1, status ENABLED, and headline Buy - Now was found in ad group with ID 55.\n", out.String())

			require.Len(t, exec.calls, 1)
			assert.Equal(t, searchCall{"123-456-7890", tt.wantQuery, DefaultPageSize}, exec.calls[0])
		})
	}
}

func TestRunNoRows(t *testing.T) {
	r, out := newTestReporter(&fakeExecutor{})

	code, err := r.Run(context.Background(), Options{CustomerID: "123-456-7890"})
	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, out.String())
}

func TestRunSkipsRowsWithoutExpandedTextAd(t *testing.T) {
	rsa := api.Row{
		AdGroup: api.AdGroup{ID: 7},
		AdGroupAd: api.AdGroupAd{
			Status: "PAUSED",
			Ad: api.Ad{
				ID:                 2,
				ResponsiveSearchAd: &api.ResponsiveSearchAdInfo{Headlines: []api.AdTextAsset{{Text: "x"}}},
			},
		},
	}
	bare := api.Row{AdGroup: api.AdGroup{ID: 8}, AdGroupAd: api.AdGroupAd{Ad: api.Ad{ID: 3}}}
	exec := &fakeExecutor{rows: []api.Row{
		expandedRow(1, 55, "ENABLED", "Buy", "Now"),
		rsa,
		bare,
		expandedRow(4, 56, "PAUSED", "Cheap", "Flights"),
	}}
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	out := &bytes.Buffer{}
	r := New(exec, out, log)

	code, err := r.Run(context.Background(), Options{CustomerID: "1"})
	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, code)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "ID 1,")
	assert.Contains(t, lines[1], "headline Cheap - Flights was found in ad group with ID 56.")

	var skipped []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "skipping row without expanded text ad" {
			skipped = append(skipped, e)
		}
	}
	require.Len(t, skipped, 2)
	assert.Equal(t, int64(2), skipped[0].Data["ad_id"])
	assert.Equal(t, 1, skipped[0].Data["headlines"])
	assert.Equal(t, int64(3), skipped[1].Data["ad_id"])
	assert.NotContains(t, skipped[1].Data, "headlines")
}

func TestRunPassesPageSize(t *testing.T) {
	exec := &fakeExecutor{}
	r, _ := newTestReporter(exec)

	_, err := r.Run(context.Background(), Options{CustomerID: "1", PageSize: 250})
	require.NoError(t, err)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, 250, exec.calls[0].pageSize)
}

func TestRunIsRepeatable(t *testing.T) {
	exec := &fakeExecutor{rows: []api.Row{
		expandedRow(1, 55, "ENABLED", "Buy", "Now"),
		expandedRow(2, 55, "ENABLED", "Sell", "Later"),
	}}
	r1, out1 := newTestReporter(exec)
	r2, out2 := newTestReporter(exec)

	_, err := r1.Run(context.Background(), Options{CustomerID: "1"})
	require.NoError(t, err)
	_, err = r2.Run(context.Background(), Options{CustomerID: "1"})
	require.NoError(t, err)

	assert.Equal(t, out1.String(), out2.String())
	assert.Len(t, exec.calls, 2)
}

func TestRunGoogleAdsError(t *testing.T) {
	exec := &fakeExecutor{err: &api.GoogleAdsError{
		RequestID: "req-1",
		Status:    "INVALID_ARGUMENT",
		Errors:    []api.ErrorDetail{{Message: "Bad customer id"}},
	}}
	r, out := newTestReporter(exec)

	code, err := r.Run(context.Background(), Options{CustomerID: "bad"})
	require.NoError(t, err)
	assert.Equal(t, ExitFailure, code)
	assert.Equal(t,
		"Request with ID \"req-1\" failed with status \"INVALID_ARGUMENT\" and includes the following errors:\n"+
			"\tError with message \"Bad customer id\".\n",
		out.String())
	assert.NotContains(t, out.String(), "On field")
}

func TestRunFailureAfterRowsKeepsOutput(t *testing.T) {
	exec := &fakeExecutor{
		rows: []api.Row{expandedRow(1, 55, "ENABLED", "Buy", "Now")},
		err:  fmt.Errorf("page 2: %w", &api.GoogleAdsError{RequestID: "req-2", Status: "RESOURCE_EXHAUSTED"}),
	}
	r, out := newTestReporter(exec)

	code, err := r.Run(context.Background(), Options{CustomerID: "1"})
	require.NoError(t, err)
	assert.Equal(t, ExitFailure, code)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Expanded text ad with ID 1"))
	assert.Equal(t, "Request with ID \"req-2\" failed with status \"RESOURCE_EXHAUSTED\" and includes the following errors:", lines[1])
}

func TestRunOtherErrorIsReturned(t *testing.T) {
	boom := errors.New("connection reset")
	r, out := newTestReporter(&fakeExecutor{err: boom})

	code, err := r.Run(context.Background(), Options{CustomerID: "1"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, out.String())
}

func TestWriteFailureFieldPaths(t *testing.T) {
	idx := 0
	gerr := &api.GoogleAdsError{
		RequestID: "abc",
		Status:    "INVALID_ARGUMENT",
		Errors: []api.ErrorDetail{
			{
				Message: "Unrecognized field",
				Location: &api.ErrorLocation{FieldPathElements: []api.FieldPathElement{
					{FieldName: "operations", Index: &idx},
					{FieldName: "create"},
				}},
			},
			{Message: "Second"},
		},
	}
	out := &bytes.Buffer{}

	WriteFailure(out, gerr)

	assert.Equal(t,
		"Request with ID \"abc\" failed with status \"INVALID_ARGUMENT\" and includes the following errors:\n"+
			"\tError with message \"Unrecognized field\".\n"+
			"\t\tOn field: operations\n"+
			"\t\tOn field: create\n"+
			"\tError with message \"Second\".\n",
		out.String())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(&api.GoogleAdsError{}))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("x")))
}
