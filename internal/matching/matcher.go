// Package matching implements the candidate scoring and ranking engine.
// Scores are computed once at submission time and stored on the
// application; ranking works over the stored scores so that review
// ordering stays stable even if the vocabulary changes later.
package matching

import "strings"

// Vocabulary is the fixed set of technology keywords the matcher knows
// about. A keyword counts as matched when it appears in the job title
// and in at least one of the candidate's skills, case-insensitively.
var Vocabulary = []string{
	"javascript",
	"react",
	"node",
	"python",
	"java",
	"sql",
	"aws",
}

// JobText carries the posting fields the matcher consults. Description
// is accepted for future use but does not influence matching today.
type JobText struct {
	Title       string
	Description string
}

// CountMatches returns how many vocabulary keywords appear both in the
// job title and in at least one candidate skill.
func CountMatches(job JobText, skills []string) int {
	title := strings.ToLower(job.Title)

	lowered := make([]string, len(skills))
	for i, skill := range skills {
		lowered[i] = strings.ToLower(skill)
	}

	matches := 0
	for _, keyword := range Vocabulary {
		if !strings.Contains(title, keyword) {
			continue
		}
		for _, skill := range lowered {
			if strings.Contains(skill, keyword) {
				matches++
				break
			}
		}
	}

	return matches
}
