package outcome

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/jwalton/tabdl/pkg/classify"
	"github.com/jwalton/tabdl/pkg/table"
)

func TestSuccess(t *testing.T) {
	tbl := &table.Table{
		Columns: []string{"a", "b"},
		Rows:    [][]string{{"1", "2"}, {"3", "4"}, {"5", "6"}, {"7", "8"}, {"9", "0"}},
	}

	record := Success(tbl)
	assert.True(t, record.Success)
	assert.Equal(t, 0, record.ExitCode)
	assert.False(t, record.IsTimeout)
	assert.Equal(t, "OK", record.Message)
	assert.Empty(t, record.Checksum)
	assert.Equal(t, tbl, record.Table)
	assert.WithinDuration(t, time.Now(), record.CreatedAt, time.Second)
}

func TestSuccessOptions(t *testing.T) {
	record := Success(&table.Table{}, WithChecksum("abc123"), WithMessage("fetched"))
	assert.Equal(t, "abc123", record.Checksum)
	assert.Equal(t, "fetched", record.Message)
	assert.Equal(t, 0, record.ExitCode)
}

func TestFailureFromTimeoutVerdict(t *testing.T) {
	record := Failure(classify.Classify("Gateway Timeout (504)"))
	assert.False(t, record.Success)
	assert.Equal(t, 2, record.ExitCode)
	assert.True(t, record.IsTimeout)
	assert.Equal(t, "Server timeout: Gateway Timeout (504)", record.Message)
	assert.Nil(t, record.Table)
	assert.Empty(t, record.Checksum)
}

func TestFailureFromGenericVerdict(t *testing.T) {
	record := Failure(classify.Classify("something odd"))
	assert.False(t, record.Success)
	assert.Equal(t, 1, record.ExitCode)
	assert.False(t, record.IsTimeout)
	assert.NotEmpty(t, record.Message)
}

// The constructors make contradictory records unrepresentable: a timeout
// record always has exit code 2 and success false.
func TestTimeoutInvariant(t *testing.T) {
	messages := []string{
		"connection timed out",
		"request timeout",
		"gateway timeout from upstream",
		"504",
	}
	for _, message := range messages {
		record := Failure(classify.Classify(message))
		if record.IsTimeout {
			assert.False(t, record.Success, message)
			assert.Equal(t, 2, record.ExitCode, message)
		}
	}
}

func TestFailureErr(t *testing.T) {
	record := FailureErr(nil)
	assert.False(t, record.Success)
	assert.Equal(t, "API error: Unknown error", record.Message)
}

func TestSummarySuccess(t *testing.T) {
	tbl := &table.Table{Columns: []string{"a"}, Rows: [][]string{{"1"}, {"2"}}}
	record := Success(tbl, WithChecksum("deadbeef"))

	summary := record.Summary()
	assert.Contains(t, summary, "SUCCESS (exit 0): OK")
	assert.Contains(t, summary, "(2 rows)")
	assert.Contains(t, summary, "[blake3:deadbeef]")
	assert.Contains(t, summary, record.CreatedAt.Format("2006-01-02 15:04:05"))
}

func TestSummaryFailure(t *testing.T) {
	record := Failure(classify.Classify("Could not resolve host: api.example.com"))

	summary := record.Summary()
	assert.Contains(t, summary, "FAILED (exit 1): Network connectivity issue: Could not resolve host: api.example.com")
	assert.NotContains(t, summary, "rows")
	assert.NotContains(t, summary, "blake3")
}
