package domain

// SubjectType differentiates who acted or holds a token.
type SubjectType string

const (
	SubjectTypeApplicant SubjectType = "APPLICANT"
	SubjectTypeAdmin     SubjectType = "ADMIN"
)
