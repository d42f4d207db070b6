package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dembasy/ranchhand/internal/domain/models"
)

func TestExtractActionWholeString(t *testing.T) {
	desc := ExtractAction(`{"action":"addCattle","params":{"breed":"Angus"},"message":"Adding it now."}`)
	require.NotNil(t, desc)
	assert.Equal(t, models.ActionAddCattle, desc.Action)
	assert.Equal(t, "Angus", desc.Params["breed"])
	assert.Equal(t, "Adding it now.", desc.Message)
}

func TestExtractActionFencedBlock(t *testing.T) {
	response := "Sure, I'll look that up.\n```json\n{\"action\":\"getAllCattle\"}\n```\nOne moment."
	desc := ExtractAction(response)
	require.NotNil(t, desc)
	assert.Equal(t, models.ActionGetAllCattle, desc.Action)
	assert.NotNil(t, desc.Params)
}

func TestExtractActionBareFence(t *testing.T) {
	response := "```\n{\"action\":\"getPenInfo\",\"params\":{\"name\":\"North Pen\"}}\n```"
	desc := ExtractAction(response)
	require.NotNil(t, desc)
	assert.Equal(t, models.ActionGetPenInfo, desc.Action)
}

func TestExtractActionBraceSubstring(t *testing.T) {
	response := `Here's what I'll do: {"action":"addPen","params":{"name":"South Pen"},"message":"Done"} — let me know.`
	desc := ExtractAction(response)
	require.NotNil(t, desc)
	assert.Equal(t, models.ActionAddPen, desc.Action)
	params, ok := desc.Params["name"]
	require.True(t, ok)
	assert.Equal(t, "South Pen", params)
}

func TestExtractActionNestedBraces(t *testing.T) {
	response := `I will run {"action":"updateCattle","params":{"tagNumber":"A12","weight":450},"message":"ok"} for you.`
	desc := ExtractAction(response)
	require.NotNil(t, desc)
	assert.Equal(t, models.ActionUpdateCattle, desc.Action)
	assert.Equal(t, float64(450), desc.Params["weight"])
}

func TestExtractActionPlainText(t *testing.T) {
	assert.Nil(t, ExtractAction("Your herd is looking healthy this week!"))
	assert.Nil(t, ExtractAction(""))
	assert.Nil(t, ExtractAction("   \n  "))
}

func TestExtractActionObjectWithoutActionField(t *testing.T) {
	assert.Nil(t, ExtractAction(`{"params":{"breed":"Angus"},"message":"no action here"}`))
}

func TestExtractActionMalformedJSONDoesNotPanic(t *testing.T) {
	assert.Nil(t, ExtractAction(`{"action": "addCattle", "params": {`))
	assert.Nil(t, ExtractAction("```json\nnot json at all\n```"))
}
