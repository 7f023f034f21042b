package domain

import "github.com/daleyoon76/saas-idea-generator/internal/domain/idea"

const MaxArtifactContentChars = idea.MaxArtifactContentChars

type (
	Idea = idea.Idea
	Plan = idea.Plan
	PRD  = idea.PRD
)
