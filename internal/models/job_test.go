package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobPosting_CanApply(t *testing.T) {
	assert.True(t, (&JobPosting{Status: JobStatusApproved}).CanApply())
	assert.False(t, (&JobPosting{Status: JobStatusPending}).CanApply())
	assert.False(t, (&JobPosting{Status: JobStatusRejected}).CanApply())
	assert.False(t, (&JobPosting{Status: JobStatusClosed}).CanApply())
}

func TestJobPosting_FormatSalary(t *testing.T) {
	low, high := 50000, 70000

	job := JobPosting{SalaryCurrency: "USD"}
	assert.Equal(t, "", job.FormatSalary())

	job.SalaryMin = &low
	assert.Equal(t, "from 50000 USD", job.FormatSalary())

	job.SalaryMax = &high
	assert.Equal(t, "50000 - 70000 USD", job.FormatSalary())

	job.SalaryMin = nil
	assert.Equal(t, "up to 70000 USD", job.FormatSalary())
}
