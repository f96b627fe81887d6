package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplication_CanTransitionTo(t *testing.T) {
	all := []ApplicationStatus{
		ApplicationStatusPending,
		ApplicationStatusReviewing,
		ApplicationStatusShortlisted,
		ApplicationStatusRejected,
		ApplicationStatusHired,
	}

	allowed := map[ApplicationStatus][]ApplicationStatus{
		ApplicationStatusPending:     {ApplicationStatusReviewing, ApplicationStatusRejected},
		ApplicationStatusReviewing:   {ApplicationStatusShortlisted, ApplicationStatusRejected},
		ApplicationStatusShortlisted: {ApplicationStatusHired, ApplicationStatusRejected},
		ApplicationStatusRejected:    {},
		ApplicationStatusHired:       {},
	}

	for from, targets := range allowed {
		app := Application{Status: from}
		allowedSet := map[ApplicationStatus]bool{}
		for _, target := range targets {
			allowedSet[target] = true
		}

		for _, to := range all {
			assert.Equal(t, allowedSet[to], app.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestApplication_NoSkippingStages(t *testing.T) {
	app := Application{Status: ApplicationStatusPending}
	assert.False(t, app.CanTransitionTo(ApplicationStatusShortlisted))
	assert.False(t, app.CanTransitionTo(ApplicationStatusHired))
}

func TestApplication_TerminalStates(t *testing.T) {
	assert.True(t, (&Application{Status: ApplicationStatusHired}).IsTerminal())
	assert.True(t, (&Application{Status: ApplicationStatusRejected}).IsTerminal())
	assert.False(t, (&Application{Status: ApplicationStatusPending}).IsTerminal())
	assert.False(t, (&Application{Status: ApplicationStatusShortlisted}).IsTerminal())
}

func TestApplication_CanWithdraw(t *testing.T) {
	assert.True(t, (&Application{Status: ApplicationStatusPending}).CanWithdraw())
	assert.True(t, (&Application{Status: ApplicationStatusReviewing}).CanWithdraw())
	assert.False(t, (&Application{Status: ApplicationStatusShortlisted}).CanWithdraw())
	assert.False(t, (&Application{Status: ApplicationStatusRejected}).CanWithdraw())
	assert.False(t, (&Application{Status: ApplicationStatusHired}).CanWithdraw())
}

func TestApplication_SkillsRoundTrip(t *testing.T) {
	app := Application{}
	app.SetSkills([]string{"React", "Node"})
	assert.Equal(t, []string{"React", "Node"}, app.GetSkills())

	app.SetSkills(nil)
	assert.Equal(t, []string{}, app.GetSkills())
}

func TestApplication_ToResponseDecodesLists(t *testing.T) {
	app := Application{}
	app.SetSkills([]string{"SQL"})
	app.SetQualifications([]string{"BSc"})

	response := app.ToResponse()
	assert.Equal(t, []string{"SQL"}, response.Skills)
	assert.Equal(t, []string{"BSc"}, response.Qualifications)
	assert.Nil(t, response.MatchScore)
}

func TestDecodeStringList_BadData(t *testing.T) {
	assert.Equal(t, []string{}, decodeStringList(""))
	assert.Equal(t, []string{}, decodeStringList("not json"))
}
