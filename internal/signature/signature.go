package signature

import "strings"

// Signature pairs a service name with a literal substring that
// identifies it in an HTTP response body
type Signature struct {
	Name  string `yaml:"name"`
	Match string `yaml:"match"`
}

// Identify returns the name of the first signature whose Match
// substring occurs in body. Matching is literal and case-sensitive;
// declaration order decides ties, so callers control priority purely
// through the order of the signatures slice.
func Identify(body string, signatures []Signature) (string, bool) {
	for _, sig := range signatures {
		if strings.Contains(body, sig.Match) {
			return sig.Name, true
		}
	}

	return "", false
}
