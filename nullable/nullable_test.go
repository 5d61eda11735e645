package nullable

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Due  Time   `json:"due"`
	Note String `json:"note"`
}

func TestTimeAcceptsDateAndRFC3339(t *testing.T) {
	var d doc
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2024-03-05","note":null}`), &d))
	assert.True(t, d.Due.Valid)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), d.Due.Time)
	assert.True(t, d.Note.IsNil())

	require.NoError(t, json.Unmarshal([]byte(`{"due":"2024-03-05T10:00:00.123Z"}`), &d))
	assert.Equal(t, 10, d.Due.Time.Hour())

	require.NoError(t, json.Unmarshal([]byte(`{"due":""}`), &d))
	assert.True(t, d.Due.IsNil())

	assert.Error(t, json.Unmarshal([]byte(`{"due":"05/03/2024"}`), &d))
}

func TestNullMarshalling(t *testing.T) {
	out, err := json.Marshal(doc{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":null,"note":null}`, string(out))

	out, err = json.Marshal(doc{Due: TimeOf(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)), Note: StringOf("hi")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-01-02T03:04:05Z","note":"hi"}`, string(out))
}

func TestTimeOr(t *testing.T) {
	def := time.Unix(100, 0)
	assert.Equal(t, def, Time{}.Or(def))
	assert.True(t, TimeOf(time.Time{}).IsNil())
}
