package orchestrator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	t.Run("parameters as object", func(t *testing.T) {
		env, err := ParseEnvelope([]byte(`{
			"function": "verify",
			"parameters": {"nationalId": "123456-7890", "country": "DK"}
		}`))
		require.NoError(t, err)

		assert.Equal(t, "verify", env.Function)
		assert.Equal(t, "123456-7890", env.Parameters["nationalId"])
		assert.Equal(t, "DK", env.Parameters["country"])
	})

	t.Run("parameters as name value list", func(t *testing.T) {
		env, err := ParseEnvelope([]byte(`{
			"function": "verify",
			"parameters": [
				{"name": "nationalId", "value": "123456-7890"},
				{"name": "country", "value": "DK"},
				{"name": "attempt", "value": 2}
			]
		}`))
		require.NoError(t, err)

		assert.Equal(t, "123456-7890", env.Parameters["nationalId"])
		assert.Equal(t, "DK", env.Parameters["country"])
		assert.Equal(t, "2", env.Parameters["attempt"])
	})

	t.Run("missing parameters and attributes default empty", func(t *testing.T) {
		env, err := ParseEnvelope([]byte(`{"function": "extract"}`))
		require.NoError(t, err)

		assert.Nil(t, env.Parameters)
		assert.NotNil(t, env.SessionAttributes)
		assert.NotNil(t, env.PromptSessionAttributes)
	})

	t.Run("single body wrapping is unwrapped", func(t *testing.T) {
		env, err := ParseEnvelope([]byte(`{"body": {"function": "verify", "parameters": {"country": "SE"}}}`))
		require.NoError(t, err)

		assert.Equal(t, "verify", env.Function)
		assert.Equal(t, "SE", env.Parameters["country"])
	})

	t.Run("stringified nested body is unwrapped twice", func(t *testing.T) {
		inner, err := json.Marshal(map[string]any{
			"function":   "verify",
			"parameters": map[string]string{"country": "NO"},
		})
		require.NoError(t, err)
		outer, err := json.Marshal(map[string]any{
			"body": map[string]string{"body": string(inner)},
		})
		require.NoError(t, err)

		env, err := ParseEnvelope(outer)
		require.NoError(t, err)
		assert.Equal(t, "verify", env.Function)
		assert.Equal(t, "NO", env.Parameters["country"])
	})

	t.Run("unwrapping stops at depth two", func(t *testing.T) {
		payload := []byte(`{"body": {"body": {"body": {"function": "verify"}}}}`)

		unwrapped := UnwrapBody(payload, maxUnwrapDepth)

		assert.JSONEq(t, `{"body": {"function": "verify"}}`, string(unwrapped))
	})

	t.Run("malformed payload is rejected", func(t *testing.T) {
		_, err := ParseEnvelope([]byte(`{"function": `))
		assert.Error(t, err)
	})
}

func TestParametersGet(t *testing.T) {
	params := Parameters{"bucket": "uploads", "empty": ""}

	assert.Equal(t, "uploads", params.Get("bucket", "fallback"))
	assert.Equal(t, "fallback", params.Get("empty", "fallback"))
	assert.Equal(t, "fallback", params.Get("absent", "fallback"))
}
