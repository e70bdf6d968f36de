package testutil

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ExecScript runs every statement of a SQL script in order. Statements end with
// ";" and "--" comments are ignored outside quotes.
func ExecScript(db *gorm.DB, script string) error {
	lines := strings.Split(script, "\n")

	var ncls []string
	for _, l := range lines {
		ncls = append(ncls, excludeComment(l))
	}

	queries := strings.Split(strings.Join(ncls, "\n"), ";")
	for _, q := range queries {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if err := db.Exec(q).Error; err != nil {
			return fmt.Errorf("%s : when executing > %s", err.Error(), strings.TrimSpace(q))
		}
	}
	return nil
}

// excludeComment strips a trailing "--" comment, leaving quoted text alone.
func excludeComment(line string) string {
	d := "\""
	s := "'"
	c := "--"

	var nc string
	ck := line
	mx := len(line) + 1

	for {
		if len(ck) == 0 {
			return nc
		}

		di := strings.Index(ck, d)
		si := strings.Index(ck, s)
		ci := strings.Index(ck, c)

		if di < 0 {
			di = mx
		}
		if si < 0 {
			si = mx
		}
		if ci < 0 {
			ci = mx
		}

		var quote string
		switch {
		case di < si && di < ci:
			quote = d
			nc += ck[:di+1]
			ck = ck[di+1:]
		case si < di && si < ci:
			quote = s
			nc += ck[:si+1]
			ck = ck[si+1:]
		case ci < di && ci < si:
			return nc + ck[:ci]
		default:
			return nc + ck
		}

		ei := strings.Index(ck, quote)
		if ei < 0 {
			// Unterminated quote; keep the rest verbatim.
			return nc + ck
		}
		nc += ck[:ei+1]
		ck = ck[ei+1:]
	}
}
