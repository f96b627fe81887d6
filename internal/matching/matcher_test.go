package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountMatches_KeywordInTitleAndSkill(t *testing.T) {
	job := JobText{Title: "Senior React Developer"}
	skills := []string{"React", "CSS"}

	assert.Equal(t, 1, CountMatches(job, skills))
}

func TestCountMatches_KeywordOnlyInTitle(t *testing.T) {
	job := JobText{Title: "Python Engineer"}
	skills := []string{"Go", "Rust"}

	assert.Equal(t, 0, CountMatches(job, skills))
}

func TestCountMatches_KeywordOnlyInSkills(t *testing.T) {
	// Skills alone never match; the title has to mention the keyword too
	job := JobText{Title: "Senior Frontend Developer"}
	skills := []string{"React", "JavaScript"}

	assert.Equal(t, 0, CountMatches(job, skills))
}

func TestCountMatches_CaseInsensitive(t *testing.T) {
	job := JobText{Title: "PYTHON developer"}
	skills := []string{"Python"}

	assert.Equal(t, 1, CountMatches(job, skills))
}

func TestCountMatches_SubstringMatching(t *testing.T) {
	// "node" matches inside "Node.js", "sql" inside "PostgreSQL"
	job := JobText{Title: "Node.js and SQL backend role"}
	skills := []string{"Node.js", "PostgreSQL"}

	assert.Equal(t, 2, CountMatches(job, skills))
}

func TestCountMatches_JavaMatchesInsideJavaScript(t *testing.T) {
	// "java" is a substring of "javascript" on both sides
	job := JobText{Title: "JavaScript Developer"}
	skills := []string{"JavaScript"}

	assert.Equal(t, 2, CountMatches(job, skills))
}

func TestCountMatches_DescriptionNotConsulted(t *testing.T) {
	job := JobText{
		Title:       "Software Engineer",
		Description: "We need strong React, Python and AWS experience",
	}
	skills := []string{"React", "Python", "AWS"}

	assert.Equal(t, 0, CountMatches(job, skills))
}

func TestCountMatches_KeywordCountedOncePerMultipleSkills(t *testing.T) {
	job := JobText{Title: "AWS Cloud Engineer"}
	skills := []string{"AWS Lambda", "AWS EC2", "AWS S3"}

	assert.Equal(t, 1, CountMatches(job, skills))
}

func TestCountMatches_NoSkills(t *testing.T) {
	job := JobText{Title: "React Developer"}

	assert.Equal(t, 0, CountMatches(job, nil))
	assert.Equal(t, 0, CountMatches(job, []string{}))
}
