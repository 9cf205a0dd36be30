package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFeedbackJSON_Valid(t *testing.T) {
	doc := `{
		"battery": {"type": "poor_compared_to_competitor", "summary": "Drains overnight"},
		"design": {"type": "awesome", "summary": "Transparent back"}
	}`

	assert.NoError(t, ValidateFeedbackJSON(doc))
}

func TestValidateFeedbackJSON_EmptyObject(t *testing.T) {
	assert.NoError(t, ValidateFeedbackJSON(`{}`))
}

func TestValidateFeedbackJSON_MissingRequiredField(t *testing.T) {
	doc := `{"battery": {"type": "awesome"}}`

	err := ValidateFeedbackJSON(doc)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.NotEmpty(t, verr.Errors)
	assert.Contains(t, verr.Error(), "summary")
}

func TestValidateFeedbackJSON_ExtraPropertyRejected(t *testing.T) {
	doc := `{"battery": {"type": "awesome", "summary": "Great", "confidence": 0.9}}`

	err := ValidateFeedbackJSON(doc)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestValidateFeedbackJSON_WrongTopLevelType(t *testing.T) {
	err := ValidateFeedbackJSON(`["battery"]`)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "(root)", verr.Errors[0].Field)
}

func TestValidateFeedbackJSON_MalformedDocument(t *testing.T) {
	err := ValidateFeedbackJSON(`{"battery":`)

	var lerr *SchemaLoadError
	require.ErrorAs(t, err, &lerr)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": `, `{}`)

	var lerr *SchemaLoadError
	require.ErrorAs(t, err, &lerr)
}
