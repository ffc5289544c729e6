// Package password scores password strength for the registration form.
package password

const (
	MinLength    = 8
	strongLength = 12
	criterionPts = 25
	maxScore     = 100
)

// Level buckets a score for display.
type Level string

const (
	LevelNone   Level = ""
	LevelWeak   Level = "weak"
	LevelFair   Level = "fair"
	LevelGood   Level = "good"
	LevelStrong Level = "strong"
)

const (
	MissingEmpty     = "Enter a password"
	MissingLength    = "At least 8 characters"
	MissingUpper     = "One uppercase letter"
	MissingLower     = "One lowercase letter"
	MissingDigitOrSp = "One number or special character"
)

// Strength is the result of Estimate.
type Strength struct {
	Score   int      `json:"score"`
	Level   Level    `json:"level"`
	Missing []string `json:"missing,omitempty"`
}

type classes struct {
	upper, lower, digit, special bool
}

func classify(pw string) classes {
	var c classes
	for i := 0; i < len(pw); i++ {
		b := pw[i]
		switch {
		case b >= 'A' && b <= 'Z':
			c.upper = true
		case b >= 'a' && b <= 'z':
			c.lower = true
		case b >= '0' && b <= '9':
			c.digit = true
		default:
			c.special = true
		}
	}
	return c
}

// Estimate scores pw out of 100. Each of length >= 8, an uppercase letter, a
// lowercase letter and a digit-or-special character is worth 25. A password of
// at least 12 characters containing all four classes scores 100 outright.
func Estimate(pw string) Strength {
	if pw == "" {
		return Strength{Score: 0, Level: LevelNone, Missing: []string{MissingEmpty}}
	}

	c := classify(pw)
	// Length is counted in characters, not bytes.
	n := len([]rune(pw))

	if n >= strongLength && c.upper && c.lower && c.digit && c.special {
		return Strength{Score: maxScore, Level: LevelStrong}
	}

	var s Strength
	check := func(ok bool, label string) {
		if ok {
			s.Score += criterionPts
			return
		}
		s.Missing = append(s.Missing, label)
	}
	check(n >= MinLength, MissingLength)
	check(c.upper, MissingUpper)
	check(c.lower, MissingLower)
	check(c.digit || c.special, MissingDigitOrSp)

	s.Level = levelFor(s.Score)
	return s
}

func levelFor(score int) Level {
	switch {
	case score == 0:
		return LevelNone
	case score < 50:
		return LevelWeak
	case score < 75:
		return LevelFair
	case score < maxScore:
		return LevelGood
	default:
		return LevelStrong
	}
}
