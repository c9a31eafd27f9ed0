package survey_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voidfleet/controller/internal/domain/survey"
)

func TestSurvey_Score(t *testing.T) {
	s := survey.Survey{Deposits: []survey.Deposit{"IRON_ORE", "ALUMINUM_ORE"}}
	assert.InDelta(t, 1.05, s.Score(), 1e-9)
}

func TestSurvey_Score_EmptyDepositsIsZero(t *testing.T) {
	s := survey.Survey{}
	assert.Equal(t, 0.0, s.Score())
}

func TestSurvey_Expired(t *testing.T) {
	expiration := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := survey.Survey{Expiration: expiration}

	assert.False(t, s.Expired(expiration))
	assert.False(t, s.Expired(expiration.Add(4*time.Minute)))
	assert.True(t, s.Expired(expiration.Add(6*time.Minute)))
}
