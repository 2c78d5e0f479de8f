package progress

import (
	"encoding/json"
	"fmt"

	"github.com/takeru/enghub/internal/gamification"
	"github.com/takeru/enghub/internal/models"
)

// Persisted blobs are wrapped in a versioned envelope. Legacy data written
// before the envelope existed parses as version 0 and walks the full upgrade
// chain. Structural upgrades are applied on the raw JSON so partially-shaped
// legacy fields never abort a load.
const currentSchemaVersion = 2

type envelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	Data          json.RawMessage `json:"data"`
}

var upgrades = map[int]func(map[string]any) map[string]any{
	0: upgradeV0toV1,
	1: upgradeV1toV2,
}

// decodeUserData parses a persisted blob, upgrading older schema versions.
func decodeUserData(raw string) (models.UserData, error) {
	var env envelope
	payload := json.RawMessage(raw)
	version := 0
	if err := json.Unmarshal([]byte(raw), &env); err == nil && env.Data != nil {
		payload = env.Data
		version = env.SchemaVersion
	}

	if version > currentSchemaVersion {
		return models.UserData{}, fmt.Errorf("unknown schema version %d", version)
	}

	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return models.UserData{}, fmt.Errorf("parse persisted state: %w", err)
	}

	for v := version; v < currentSchemaVersion; v++ {
		doc = upgrades[v](doc)
	}

	upgraded, err := json.Marshal(doc)
	if err != nil {
		return models.UserData{}, err
	}

	var data models.UserData
	if err := json.Unmarshal(upgraded, &data); err != nil {
		return models.UserData{}, fmt.Errorf("decode upgraded state: %w", err)
	}

	// Level is derived state; a stale persisted value never survives a load.
	data.Level = gamification.LevelForXP(data.XP)
	if data.LoginStreak < 1 {
		data.LoginStreak = 1
	}
	return data, nil
}

// encodeUserData serializes the aggregate under the current schema version.
func encodeUserData(data models.UserData) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(envelope{SchemaVersion: currentSchemaVersion, Data: payload})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// upgradeV0toV1 backfills containers that predate word memory and reading
// history.
func upgradeV0toV1(doc map[string]any) map[string]any {
	if doc["wordMemory"] == nil {
		doc["wordMemory"] = map[string]any{}
	}
	if doc["readingHistory"] == nil {
		doc["readingHistory"] = []any{}
	}
	return doc
}

// upgradeV1toV2 rewrites reading-history entries from the single
// open-question shape to the multi-question array shape.
func upgradeV1toV2(doc map[string]any) map[string]any {
	history, ok := doc["readingHistory"].([]any)
	if !ok {
		return doc
	}

	for _, raw := range history {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		if content, ok := item["content"].(map[string]any); ok {
			if _, ok := content["openQuestions"]; !ok {
				if q, ok := content["openQuestion"].(map[string]any); ok {
					content["openQuestions"] = []any{q}
				} else {
					content["openQuestions"] = []any{}
				}
			}
			delete(content, "openQuestion")
		}

		if _, ok := item["userOpenAnswers"]; !ok {
			if answer, ok := item["userOpenAnswer"].(string); ok && answer != "" {
				item["userOpenAnswers"] = []any{answer}
			} else {
				item["userOpenAnswers"] = []any{}
			}
		}
		delete(item, "userOpenAnswer")

		if _, ok := item["evaluations"]; !ok {
			if eval, ok := item["evaluation"].(map[string]any); ok {
				item["evaluations"] = []any{eval}
			} else {
				item["evaluations"] = []any{}
			}
		}
		delete(item, "evaluation")
	}
	return doc
}
