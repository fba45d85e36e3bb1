package util

import "strings"

// SubjectMatches reports whether subj matches a NATS pattern: * stands for
// exactly one token, a trailing > for one or more.
func SubjectMatches(pattern, subj string) bool {
	_, ok := Capture(pattern, subj)
	return ok
}

// Capture matches subj against pattern and returns the tokens that filled
// its wildcards, in order. A trailing > captures the joined remainder.
func Capture(pattern, subj string) ([]string, bool) {
	if pattern == subj {
		return nil, true
	}
	pat := strings.Split(pattern, ".")
	tok := strings.Split(subj, ".")
	var caps []string
	for i, p := range pat {
		if p == ">" {
			if i >= len(tok) {
				return nil, false
			}
			return append(caps, strings.Join(tok[i:], ".")), true
		}
		if i >= len(tok) || tok[i] == "" {
			return nil, false
		}
		switch p {
		case "*":
			caps = append(caps, tok[i])
		case tok[i]:
		default:
			return nil, false
		}
	}
	if len(tok) != len(pat) {
		return nil, false
	}
	return caps, true
}
