package aws

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCostExplorerAPI struct {
	pages []*costexplorer.GetCostAndUsageOutput
	err   error
	calls []*costexplorer.GetCostAndUsageInput
}

func (m *mockCostExplorerAPI) GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	m.calls = append(m.calls, params)
	if m.err != nil {
		return nil, m.err
	}
	return m.pages[len(m.calls)-1], nil
}

func ceGroup(account, service, amount string) types.Group {
	return types.Group{
		Keys: []string{account, service},
		Metrics: map[string]types.MetricValue{
			"UnblendedCost": {Amount: awssdk.String(amount), Unit: awssdk.String("USD")},
		},
	}
}

func ceResult(start string, estimated bool, groups ...types.Group) types.ResultByTime {
	return types.ResultByTime{
		TimePeriod: &types.DateInterval{Start: awssdk.String(start)},
		Estimated:  estimated,
		Groups:     groups,
	}
}

func TestFetchCostPeriods_FollowsPagination(t *testing.T) {
	mock := &mockCostExplorerAPI{pages: []*costexplorer.GetCostAndUsageOutput{
		{
			ResultsByTime: []types.ResultByTime{
				ceResult("2024-01-01", false, ceGroup("111111111111", "Amazon EC2", "10.5")),
				ceResult("2024-02-01", false, ceGroup("111111111111", "Amazon EC2", "11")),
			},
			NextPageToken: awssdk.String("page-2"),
		},
		{
			ResultsByTime: []types.ResultByTime{
				ceResult("2024-02-01", false, ceGroup("111111111111", "Amazon S3", "2")),
				ceResult("2024-03-01", true, ceGroup("111111111111", "Amazon EC2", "4")),
			},
		},
	}}

	start := time.Date(2023, time.December, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	periods, err := fetchCostPeriods(context.Background(), mock, start, end, nil)
	require.NoError(t, err)

	require.Len(t, mock.calls, 2)
	assert.Nil(t, mock.calls[0].NextPageToken)
	assert.Equal(t, "page-2", awssdk.ToString(mock.calls[1].NextPageToken))
	assert.Equal(t, "2023-12-15", awssdk.ToString(mock.calls[0].TimePeriod.Start))
	assert.Equal(t, "2024-03-10", awssdk.ToString(mock.calls[0].TimePeriod.End))
	assert.Equal(t, types.GranularityMonthly, mock.calls[0].Granularity)
	require.Len(t, mock.calls[0].GroupBy, 2)
	assert.Equal(t, "LINKED_ACCOUNT", awssdk.ToString(mock.calls[0].GroupBy[0].Key))
	assert.Equal(t, "SERVICE", awssdk.ToString(mock.calls[0].GroupBy[1].Key))

	require.Len(t, periods, 3)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), periods[1].PeriodStart)
	require.Len(t, periods[1].Groups, 2)
	assert.Equal(t, "Amazon S3", periods[1].Groups[1].ServiceKey)
	assert.Equal(t, "111111111111", periods[1].Groups[1].AccountKey)
	assert.True(t, periods[2].Estimated)
}

func TestFetchCostPeriods_PropagatesErrors(t *testing.T) {
	mock := &mockCostExplorerAPI{err: errors.New("AccessDeniedException")}

	_, err := fetchCostPeriods(context.Background(), mock, time.Now(), time.Now(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestToCostPeriod_MissingMetricAndKeys(t *testing.T) {
	result := types.ResultByTime{
		TimePeriod: &types.DateInterval{Start: awssdk.String("2024-05-01")},
		Groups: []types.Group{
			{Keys: nil},
			{Keys: []string{"AWS Lambda"}, Metrics: map[string]types.MetricValue{}},
		},
	}

	period, err := toCostPeriod(result)
	require.NoError(t, err)
	require.Len(t, period.Groups, 1)
	assert.Equal(t, "AWS Lambda", period.Groups[0].ServiceKey)
	assert.Equal(t, "", period.Groups[0].Amount)

	_, err = toCostPeriod(types.ResultByTime{TimePeriod: &types.DateInterval{Start: awssdk.String("05/2024")}})
	assert.Error(t, err)
	_, err = toCostPeriod(types.ResultByTime{})
	assert.Error(t, err)
}

func TestParseTagFilter(t *testing.T) {
	filter, err := parseTagFilter(nil)
	require.NoError(t, err)
	assert.Nil(t, filter)

	filter, err = parseTagFilter([]string{"Team=DevOps"})
	require.NoError(t, err)
	require.NotNil(t, filter.Tags)
	assert.Equal(t, "Team", awssdk.ToString(filter.Tags.Key))
	assert.Equal(t, []string{"DevOps"}, filter.Tags.Values)

	filter, err = parseTagFilter([]string{"Team=DevOps", "Env=prod"})
	require.NoError(t, err)
	assert.Len(t, filter.And, 2)

	_, err = parseTagFilter([]string{"Team"})
	assert.Error(t, err)
}

func TestGetAWSProfiles(t *testing.T) {
	dir := t.TempDir()
	credentials := filepath.Join(dir, "credentials")
	cfg := filepath.Join(dir, "config")

	require.NoError(t, os.WriteFile(credentials, []byte("[default]\naws_access_key_id = x\n\n[billing]\naws_access_key_id = y\n"), 0600))
	require.NoError(t, os.WriteFile(cfg, []byte("[profile dev]\nregion = us-east-1\n[sso-session corp]\nsso_region = us-east-1\n[default]\n"), 0600))

	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", credentials)
	t.Setenv("AWS_CONFIG_FILE", cfg)

	repo := NewAWSRepository()
	assert.Equal(t, []string{"billing", "default", "dev"}, repo.GetAWSProfiles())
}

func TestGetAWSProfiles_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "missing-credentials"))
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "missing-config"))

	assert.Equal(t, []string{"default"}, NewAWSRepository().GetAWSProfiles())
}
