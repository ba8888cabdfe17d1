package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ringkas/internal/domain/entity"
)

func TestProcessingResult_ReductionPercentage(t *testing.T) {
	assert.Equal(t, 70, entity.ProcessingResult{WordCountOriginal: 100, WordCountSummary: 30}.ReductionPercentage())
	assert.Equal(t, 0, entity.ProcessingResult{WordCountOriginal: 0, WordCountSummary: 12}.ReductionPercentage())
}

func TestProcessingResult_AnswerText(t *testing.T) {
	answer := "Jakarta"
	assert.Equal(t, "", entity.ProcessingResult{}.AnswerText())
	assert.Equal(t, "Jakarta", entity.ProcessingResult{Answer: &answer}.AnswerText())
}
