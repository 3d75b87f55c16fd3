package services

import (
	"net/url"
	"sort"
	"strings"
)

// Tracking-Parameter, die bei der Kanonisierung entfernt werden.
var trackingParams = map[string]struct{}{
	"utm_source": {}, "utm_medium": {}, "utm_campaign": {}, "utm_term": {},
	"utm_content": {}, "utm_id": {}, "gclid": {}, "fbclid": {}, "mc_cid": {},
	"mc_eid": {}, "igshid": {}, "ref": {}, "cmpid": {},
}

// CanonicalURL bildet eine URL auf ihre kanonische Form ab: Schema und
// Host kleingeschrieben, Default-Ports entfernt, Fragment verworfen,
// Query-Parameter sortiert, Tracking-Parameter entfernt, Slash am Ende
// des Pfads abgeschnitten. Eine nicht parsbare URL kommt getrimmt zurück.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	switch {
	case u.Scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	}
	u.Host = host
	u.Fragment = ""

	query := u.Query()
	for param := range query {
		if _, tracking := trackingParams[strings.ToLower(param)]; tracking {
			query.Del(param)
		}
	}
	u.RawQuery = encodeSorted(query)
	u.Path = strings.TrimRight(u.Path, "/")

	return u.String()
}

// encodeSorted kodiert Query-Parameter in stabiler Reihenfolge.
func encodeSorted(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		vs := append([]string{}, values[k]...)
		sort.Strings(vs)
		for _, v := range vs {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// URLHost extrahiert den Host einer URL ohne www-Präfix.
func URLHost(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
