package domain

import "strings"

// CallerInfo is the caller metadata recovered from SIP headers.
// An empty field means the value could not be derived.
type CallerInfo struct {
	CallerID      string
	CallerDomain  string
	CallerIP      string
	FromHeader    string
	ContactHeader string
	SIPCallID     string
	UserAgent     string
	Destination   string
}

func (c CallerInfo) IsZero() bool {
	return c == CallerInfo{}
}

// ExtractCallerInfo never fails: headers it cannot parse only leave
// fields empty.
func ExtractCallerInfo(headers []HeaderPair) CallerInfo {
	var info CallerInfo

	for _, h := range headers {
		switch strings.ToLower(h.Name) {
		case "from":
			info.FromHeader = h.Value
			if user, domain, ok := parseSIPURI(h.Value); ok {
				info.CallerID = user
				info.CallerDomain = domain
			}
		case "contact":
			info.ContactHeader = h.Value
			if ip, ok := parseContactHost(h.Value); ok {
				info.CallerIP = ip
			}
		case "call-id":
			info.SIPCallID = h.Value
		case "user-agent":
			info.UserAgent = h.Value
		case "to":
			info.Destination = h.Value
		}
	}

	return info
}

// parseSIPURI splits the user@domain segment of "<sip:user@domain>".
// With more than one '@' the domain is the part between the first two.
func parseSIPURI(value string) (user, domain string, ok bool) {
	_, rest, found := strings.Cut(value, "<sip:")
	if !found {
		return "", "", false
	}
	segment, _, found := strings.Cut(rest, ">")
	if !found {
		return "", "", false
	}
	user, rest, found = strings.Cut(segment, "@")
	if !found {
		return "", "", false
	}
	domain, _, _ = strings.Cut(rest, "@")
	return user, domain, true
}

func parseContactHost(value string) (string, bool) {
	_, host, found := strings.Cut(value, "@")
	if !found {
		return "", false
	}

	// the closing '>' ends the URI; header params after it are not the host
	host, _, _ = strings.Cut(host, ">")
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	} else if i := strings.IndexByte(host, ';'); i >= 0 {
		host = host[:i]
	}

	return host, host != ""
}
