package config

const (
	// MaxCaseStudyNameLength matches the store's 2000-character cap on a
	// single rich-text run, trimmed to something a card can show.
	MaxCaseStudyNameLength = 200

	// MaxProjectDetailsLength is the store's cap on one rich-text run.
	MaxProjectDetailsLength = 2000

	// MaxTagLength is the store's cap on a multi-select option name.
	MaxTagLength = 100

	// MaxTags bounds the tag list of one case study.
	MaxTags = 100

	// MaxEmailLength follows RFC 5321.
	MaxEmailLength = 254

	// MaxPasswordLength is the most bcrypt will hash.
	MaxPasswordLength = 72

	// MaxFullNameLength and MaxPhoneLength bound profile fields.
	MaxFullNameLength = 200
	MaxPhoneLength    = 50

	// MaxLogFiles is how many portfolio-*.log files OpenLogFile keeps.
	MaxLogFiles = 10

	// OverviewRecentCount is the length of the overview's recent lists.
	OverviewRecentCount = 5
)
