package services_test

import (
	"testing"

	"github.com/garvbarthwal/Kisaan-sub001/services"

	"github.com/stretchr/testify/assert"
)

func TestCleanForSpeechStripsMarkdown(t *testing.T) {
	in := "## Watering\n\n- Water **early morning** to reduce evaporation.\n- Use `drip` irrigation where possible."
	got := services.CleanForSpeech(in)

	assert.Equal(t, "Watering\n\nWater early morning to reduce evaporation.\nUse drip irrigation where possible.", got)
}

func TestCleanForSpeechStripsLinksAndEmoji(t *testing.T) {
	in := "See [this guide](https://example.com/guide) for details 🌱"
	got := services.CleanForSpeech(in)

	assert.Equal(t, "See this guide for details", got)
}

func TestCleanForSpeechDropsCodeBlocks(t *testing.T) {
	in := "Mix as follows:\n```\n1 part urea\n2 parts water\n```\nApply weekly."
	got := services.CleanForSpeech(in)

	assert.NotContains(t, got, "urea")
	assert.Contains(t, got, "Apply weekly.")
}
