package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takeru/enghub/internal/models"
)

// Migration tests live in-package to reach the unexported codec directly.

const legacyV0Blob = `{
  "level": 2,
  "xp": 1500,
  "lastLogin": "2024-06-14T09:00:00Z",
  "loginStreak": 3,
  "goal": null,
  "badges": ["first_steps", "vocab_wiz_1"],
  "logs": [
    {"id": "1718000000000", "type": "vocabulary", "date": "2024-06-13T10:00:00Z", "xp": 60, "details": {"category": "Business", "score": 4, "total": 5}},
    {"id": "1718000001000", "type": "writing", "date": "2024-06-13T11:00:00Z", "xp": 75, "details": {"topic": "My weekend", "wordCount": 120}}
  ],
  "preferences": {"level": "Intermediate", "learningGoal": "Travel"}
}`

func TestDecode_LegacyV0BackfillsContainers(t *testing.T) {
	data, err := decodeUserData(legacyV0Blob)
	require.NoError(t, err)

	assert.Equal(t, 1500, data.XP)
	assert.Equal(t, 3, data.LoginStreak)
	assert.NotNil(t, data.WordMemory, "wordMemory backfilled")
	assert.Empty(t, data.WordMemory)
	assert.Empty(t, data.ReadingHistory, "readingHistory backfilled")
	assert.Equal(t, []string{"first_steps", "vocab_wiz_1"}, data.Badges)

	require.Len(t, data.Logs, 2)
	vocab, ok := data.Logs[0].Details.(models.VocabularyDetails)
	require.True(t, ok, "vocabulary details decode into the typed variant")
	assert.Equal(t, 4, vocab.Score)
	assert.Equal(t, 5, vocab.Total)
	assert.Equal(t, "Business", vocab.Category)

	writing, ok := data.Logs[1].Details.(models.WritingDetails)
	require.True(t, ok)
	assert.Equal(t, 120, writing.WordCount)
}

func TestDecode_LegacyReadingHistoryShapeUpgrade(t *testing.T) {
	blob := `{
  "level": 1,
  "xp": 100,
  "lastLogin": "2024-06-14T09:00:00Z",
  "loginStreak": 1,
  "badges": [],
  "logs": [],
  "preferences": {"level": "Intermediate", "learningGoal": "General"},
  "wordMemory": {},
  "readingHistory": [
    {
      "id": "abc",
      "date": "2024-06-13T10:00:00Z",
      "topic": "Coffee",
      "level": "Intermediate (B1)",
      "content": {
        "passage": "Coffee is popular.",
        "mcqs": [{"question": "Q1", "options": ["a", "b"], "correctAnswerIndex": 0}],
        "openQuestion": {"question": "Why is coffee popular?"}
      },
      "userMcqAnswers": [0],
      "userOpenAnswer": "Because of caffeine.",
      "evaluation": {"verdict": "Correct", "explanation": "Matches the passage."}
    },
    {
      "id": "def",
      "date": "2024-06-12T10:00:00Z",
      "topic": "Trains",
      "level": "Intermediate (B1)",
      "content": {"passage": "Trains are fast.", "mcqs": []},
      "userMcqAnswers": []
    }
  ]
}`

	data, err := decodeUserData(blob)
	require.NoError(t, err)
	require.Len(t, data.ReadingHistory, 2)

	first := data.ReadingHistory[0]
	require.Len(t, first.Content.OpenQuestions, 1)
	assert.Equal(t, "Why is coffee popular?", first.Content.OpenQuestions[0].Question)
	require.Len(t, first.UserOpenAnswers, 1)
	assert.Equal(t, "Because of caffeine.", first.UserOpenAnswers[0])
	require.Len(t, first.Evaluations, 1)
	require.NotNil(t, first.Evaluations[0])
	assert.Equal(t, "Correct", first.Evaluations[0].Verdict)

	second := data.ReadingHistory[1]
	assert.Empty(t, second.Content.OpenQuestions, "absent open question upgrades to empty list")
	assert.Empty(t, second.UserOpenAnswers)
	assert.Empty(t, second.Evaluations)
}

func TestDecode_AlreadyUpgradedEntriesUntouched(t *testing.T) {
	blob := `{"schemaVersion":2,"data":{
  "level": 1,
  "xp": 0,
  "lastLogin": "2024-06-14T09:00:00Z",
  "loginStreak": 1,
  "badges": [],
  "logs": [],
  "preferences": {"level": "Intermediate", "learningGoal": "General"},
  "wordMemory": {"cat": {"status": "mastered", "consecutiveCorrect": 4}},
  "readingHistory": [
    {
      "id": "xyz",
      "date": "2024-06-13T10:00:00Z",
      "topic": "Rivers",
      "level": "Beginner (A2)",
      "content": {"passage": "p", "mcqs": [], "openQuestions": [{"question": "Q?"}]},
      "userMcqAnswers": [],
      "userOpenAnswers": ["A."],
      "evaluations": [null]
    }
  ]
}}`

	data, err := decodeUserData(blob)
	require.NoError(t, err)

	require.Len(t, data.ReadingHistory, 1)
	assert.Len(t, data.ReadingHistory[0].Content.OpenQuestions, 1)
	assert.Equal(t, []string{"A."}, data.ReadingHistory[0].UserOpenAnswers)
	assert.Equal(t, 4, data.WordMemory["cat"].ConsecutiveCorrect)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := decodeUserData("{broken")
	assert.Error(t, err)

	_, err = decodeUserData(`"just a string"`)
	assert.Error(t, err)
}

func TestDecode_FutureVersionRejected(t *testing.T) {
	_, err := decodeUserData(`{"schemaVersion":99,"data":{"level":1}}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown schema version")
}

func TestDecode_ClampsDegenerateValues(t *testing.T) {
	data, err := decodeUserData(`{"level":0,"xp":0,"loginStreak":0,"wordMemory":{},"readingHistory":[]}`)
	require.NoError(t, err)
	assert.Equal(t, 1, data.Level)
	assert.Equal(t, 1, data.LoginStreak)
}

func TestDecode_LevelDerivedFromXP(t *testing.T) {
	// Level is never trusted from the blob; a stale persisted value is
	// recomputed on load, not on the next recorded activity.
	data, err := decodeUserData(`{"level":1,"xp":5000,"loginStreak":2,"wordMemory":{},"readingHistory":[]}`)
	require.NoError(t, err)
	assert.Equal(t, 6, data.Level)

	data, err = decodeUserData(`{"level":9,"xp":250,"loginStreak":2,"wordMemory":{},"readingHistory":[]}`)
	require.NoError(t, err)
	assert.Equal(t, 1, data.Level)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	data, err := decodeUserData(legacyV0Blob)
	require.NoError(t, err)

	raw, err := encodeUserData(data)
	require.NoError(t, err)

	again, err := decodeUserData(raw)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}
