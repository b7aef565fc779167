// Package policy classifies URLs against ordered follow, no-follow and
// download rules.
//
// Every rule is a regular expression anchored at the start of the URL,
// so `.*\.jpg` matches any URL ending in .jpg while `http://a/` matches
// every URL on host a. No-follow rules take precedence over follow rules.
// Download rules are evaluated independently of both.
//
// # Usage
//
//	m, err := policy.New(policy.Lists{
//	    Follow:   []string{`.*\.html`, `.*/`},
//	    NoFollow: []string{`.*\.jpg`},
//	    Download: []string{`.*\.jpg`},
//	})
//	c := m.Classify("http://example.com/a.jpg")
//	// c.MayFollow == false, c.ShouldDownload == true
package policy
